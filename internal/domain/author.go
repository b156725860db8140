package domain

import (
    "bytes"
    "encoding/json"
    "fmt"
)

// AuthorKind tags which shape an AuthorField carries.
type AuthorKind int

const (
    AuthorAbsent AuthorKind = iota
    AuthorText
    AuthorLookup
)

// Lookup is the object form of a person column.
type Lookup struct {
    LookupValue string `json:"LookupValue,omitempty"`
    DisplayName string `json:"DisplayName,omitempty"`
    Email       string `json:"Email,omitempty"`
}

// AuthorField is a person column that arrives either as a plain string or as
// a lookup object. The zero value is an absent field.
type AuthorField struct {
    Kind   AuthorKind
    Text   string
    Lookup Lookup
}

// TextAuthor builds a plain-string author field.
func TextAuthor(s string) AuthorField { return AuthorField{Kind: AuthorText, Text: s} }

// LookupAuthor builds a lookup-object author field.
func LookupAuthor(l Lookup) AuthorField { return AuthorField{Kind: AuthorLookup, Lookup: l} }

func (a *AuthorField) UnmarshalJSON(data []byte) error {
    data = bytes.TrimSpace(data)
    if len(data) == 0 || bytes.Equal(data, []byte("null")) {
        *a = AuthorField{}
        return nil
    }
    switch data[0] {
    case '"':
        var s string
        if err := json.Unmarshal(data, &s); err != nil {
            return err
        }
        *a = TextAuthor(s)
        return nil
    case '{':
        var l Lookup
        if err := json.Unmarshal(data, &l); err != nil {
            return err
        }
        *a = LookupAuthor(l)
        return nil
    }
    return fmt.Errorf("author field: unsupported json %q", string(data))
}

func (a AuthorField) MarshalJSON() ([]byte, error) {
    switch a.Kind {
    case AuthorText:
        return json.Marshal(a.Text)
    case AuthorLookup:
        return json.Marshal(a.Lookup)
    }
    return []byte("null"), nil
}
