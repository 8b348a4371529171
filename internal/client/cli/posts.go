package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bizboard/internal/client/categories"
	"github.com/dmitrijs2005/bizboard/internal/client/models"
	"github.com/dmitrijs2005/bizboard/internal/common"
)

// List refreshes the board and prints the live posts, optionally only those
// in one category.
func (a *App) List(ctx context.Context, category string) error {
	st, err := a.board.Refresh(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return err
	}
	if st.Source == models.SourceLocal {
		fmt.Fprintln(a.out, "Remote store unreachable, showing locally saved posts")
	}

	shown := a.board.Filter(category)
	if len(shown) == 0 {
		fmt.Fprintln(a.out, "No posts")
		return nil
	}
	for _, p := range shown {
		fmt.Fprintln(a.out, formatPost(p, a.actor))
	}
	return nil
}

// Categories prints the filter options of the last loaded board.
func (a *App) Categories(ctx context.Context) error {
	for _, c := range a.board.Snapshot().Categories {
		fmt.Fprintf(a.out, "  %-28s %s\n", c.Value, categoryName(c))
	}
	return nil
}

func (a *App) Add(ctx context.Context) error {
	d, err := a.readDraft(models.PostDraft{})
	if err != nil {
		return err
	}

	p, err := a.posts.Create(ctx, d, a.actor)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return err
	}
	if p.Source == models.SourceLocal {
		fmt.Fprintf(a.out, "Post %s saved locally\n", p.ID)
	} else {
		fmt.Fprintf(a.out, "Post %s published\n", p.ID)
	}
	return nil
}

func (a *App) Edit(ctx context.Context, id string) error {
	p, err := a.posts.Get(ctx, id)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return err
	}
	if !a.posts.CanEdit(*p, a.actor) {
		fmt.Fprintln(a.out, "You can only edit your own posts")
		return common.ErrUnauthorized
	}

	d, err := a.readDraft(draftFromPost(*p, a.registry))
	if err != nil {
		return err
	}
	if _, err := a.posts.Update(ctx, id, d, a.actor); err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Post %s updated\n", id)
	return nil
}

// Delete asks for the confirmation the configured confirmer wants.
func (a *App) Delete(ctx context.Context, id string) error {
	var (
		input []byte
		err   error
	)
	if a.confirmer.Hidden() {
		input, err = getPassword(a.confirmer.Prompt(id), a.out)
	} else {
		var s string
		s, err = getSimpleText(a.reader, a.confirmer.Prompt(id), a.out)
		input = []byte(s)
	}
	if err != nil {
		return err
	}
	defer common.WipeByteArray(input)

	if err := a.board.Delete(ctx, id, input); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Confirmation did not match, nothing deleted")
		} else {
			fmt.Fprintf(a.out, "Error: %s\n", err)
		}
		return err
	}
	fmt.Fprintf(a.out, "Post %s deleted\n", id)
	return nil
}

func (a *App) Sweep(ctx context.Context) error {
	n, err := a.posts.Sweep(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return err
	}
	fmt.Fprintf(a.out, "%d expired post(s) removed from the local cache\n", n)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	fmt.Fprintf(a.out, "Mode:     %s\n", a.posts.Mode())
	fmt.Fprintf(a.out, "Identity: %s\n", a.actor)
	if a.poller != nil {
		fmt.Fprintf(a.out, "Unread:   %d\n", len(a.poller.Unread()))
	}
	if a.board != nil {
		if st := a.board.Snapshot(); !st.RefreshedAt.IsZero() {
			fmt.Fprintf(a.out, "Board:    %d post(s) from %s store at %s\n",
				len(st.Posts), st.Source, st.RefreshedAt.Format("15:04:05"))
		}
	}
	return nil
}

// readDraft prompts for every field, offering the values of current as
// defaults.
func (a *App) readDraft(current models.PostDraft) (models.PostDraft, error) {
	d := current
	var err error

	if d.AuthorName, err = GetTextWithDefault(a.reader, "Your name", current.AuthorName, a.out); err != nil {
		return d, err
	}
	if d.CompanyName, err = GetTextWithDefault(a.reader, "Company", current.CompanyName, a.out); err != nil {
		return d, err
	}

	prompt := fmt.Sprintf("Description (up to %d words)", models.MaxDescriptionWords)
	if current.Description != "" {
		prompt += ", empty keeps the current text"
	}
	desc, err := GetMultiline(a.reader, prompt, a.out)
	if err != nil {
		return d, err
	}
	if desc != "" {
		d.Description = desc
	}

	if d.ContactEmail, err = GetTextWithDefault(a.reader, "Contact email", current.ContactEmail, a.out); err != nil {
		return d, err
	}
	if d.ContactPhone, err = GetTextWithDefault(a.reader, "Contact phone", current.ContactPhone, a.out); err != nil {
		return d, err
	}

	options := a.posts.Categories(nil)
	fmt.Fprintln(a.out, "Categories:")
	for i, c := range options {
		fmt.Fprintf(a.out, "  %d) %s\n", i+1, c.Label)
	}
	fmt.Fprintf(a.out, "  %d) Other (type your own)\n", len(options)+1)

	choice, err := GetTextWithDefault(a.reader, "Category", current.Category, a.out)
	if err != nil {
		return d, err
	}
	d.Category = pickCategory(choice, options)

	if d.Category == common.OtherCategory {
		if d.CustomCategory, err = GetTextWithDefault(a.reader, "Category name", current.CustomCategory, a.out); err != nil {
			return d, err
		}
	} else {
		d.CustomCategory = ""
	}
	return d, nil
}

// pickCategory accepts a menu number or a category value.
func pickCategory(choice string, options []models.Category) string {
	choice = strings.TrimSpace(choice)
	if n, err := strconv.Atoi(choice); err == nil {
		switch {
		case n >= 1 && n <= len(options):
			return options[n-1].Value
		case n == len(options)+1:
			return common.OtherCategory
		}
	}
	return choice
}

// draftFromPost turns a stored post back into editable input. Categories
// outside the registry come back as "other" with their label.
func draftFromPost(p models.Post, reg *categories.Registry) models.PostDraft {
	d := models.PostDraft{
		AuthorName:   p.AuthorName,
		CompanyName:  p.CompanyName,
		Description:  p.Description,
		ContactEmail: p.ContactEmail,
		ContactPhone: p.ContactPhone,
		Category:     p.Category.Value,
	}
	if reg.IsCanonical(p.Category.Value) {
		return d
	}
	if p.Category.Label != "" {
		d.Category = common.OtherCategory
		d.CustomCategory = p.Category.Label
	}
	return d
}
