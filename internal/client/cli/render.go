package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bizboard/internal/client/models"
)

const dateLayout = "2006-01-02"

func categoryName(c models.Category) string {
	if c.Label != "" {
		return c.Label
	}
	return c.Value
}

// formatPost renders one post as a short block of text.
func formatPost(p models.Post, actor string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s | %s", p.ID, p.CompanyName, categoryName(p.Category))
	if p.Source == models.SourceLocal {
		b.WriteString(" (local)")
	}
	if _, owned := p.Owner.Identity(); owned && p.Owner.Permits(actor) {
		b.WriteString(" (yours)")
	}
	b.WriteString("\n")

	for _, line := range strings.Split(p.Description, "\n") {
		fmt.Fprintf(&b, "    %s\n", line)
	}
	fmt.Fprintf(&b, "    Contact: %s <%s> %s\n", p.AuthorName, p.ContactEmail, p.ContactPhone)
	fmt.Fprintf(&b, "    Posted %s, expires %s",
		p.CreatedAt.Local().Format(dateLayout), p.ExpiresAt.Local().Format(dateLayout))

	return b.String()
}
