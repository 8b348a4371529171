package common

// Well-known keys of the local metadata store.
const (
	PostsKey         = "bulletin_posts"
	IdentityKey      = "current_user_id"
	AccessTokenKey   = "access_token"
	// signing key generated when none is configured
	AccessSigningKey = "access_token_key"
)

// OtherCategory is the selector value that asks for a custom category.
const OtherCategory = "other"
