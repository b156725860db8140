package engine

import (
    "strings"

    "golang.org/x/text/cases"
    "golang.org/x/text/unicode/norm"
)

// foldKey produces the comparison form of a name or address: trimmed, NFC
// composed and Unicode case folded. Equality of folded keys is the only
// identity test the engine uses; there is no substring or fuzzy matching.
func foldKey(s string) string {
    s = strings.TrimSpace(s)
    if s == "" {
        return ""
    }
    return cases.Fold().String(norm.NFC.String(s))
}

// keySet is a set of folded identity keys.
type keySet map[string]struct{}

func (k keySet) add(raw string) {
    if f := foldKey(raw); f != "" {
        k[f] = struct{}{}
    }
}

func (k keySet) has(raw string) bool {
    f := foldKey(raw)
    if f == "" {
        return false
    }
    _, ok := k[f]
    return ok
}

// covers reports whether any of the user's identifying fields is in the set.
func (k keySet) covers(mail, upn, displayName string) bool {
    return k.has(mail) || k.has(upn) || k.has(displayName)
}
