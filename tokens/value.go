package tokens

// FieldValue is the content of the token field: either raw text being typed
// or a token the user committed to.
type FieldValue struct {
	selected bool
	text     string
	token    Token
}

// Typing wraps raw text typed into the token field
func Typing(text string) FieldValue {
	return FieldValue{text: text}
}

// Selected wraps a committed token selection
func Selected(t Token) FieldValue {
	return FieldValue{selected: true, token: t}
}

// Text returns the typed text, false if the value is a selection
func (v FieldValue) Text() (string, bool) {
	return v.text, !v.selected
}

// Token returns the selected token, false if the value is typed text
func (v FieldValue) Token() (Token, bool) {
	return v.token, v.selected
}

func (v FieldValue) String() string {
	if v.selected {
		return v.token.Label()
	}
	return v.text
}
