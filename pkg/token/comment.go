package token

// CommentKind distinguishes the SurrealQL comment styles.
type CommentKind int

// Comment kinds. SurrealQL accepts SQL, C++ and shell style line
// comments plus C style block comments.
const (
	DashComment  CommentKind = iota // -- comment
	SlashComment                    // // comment
	HashComment                     // # comment
	BlockComment                    // /* comment */
)

// Comment represents a source comment with position. Text excludes the
// delimiters and is trimmed; comments directly above a DEFINE FUNCTION
// header become the generated wrapper's documentation.
type Comment struct {
	Kind CommentKind
	Text string
	Span Span
}

// IsBlock returns true if this is a block comment.
func (c *Comment) IsBlock() bool {
	return c.Kind == BlockComment
}
