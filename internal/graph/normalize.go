package graph

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Well-known mail folder names accepted by the Graph API in place of folder
// ids. Keys are normalized display-name spellings users actually type.
var wellKnownFolders = map[string]string{
	"inbox":                "inbox",
	"archive":              "archive",
	"drafts":               "drafts",
	"outbox":               "outbox",
	"sentitems":            "sentitems",
	"sent items":           "sentitems",
	"sent":                 "sentitems",
	"deleteditems":         "deleteditems",
	"deleted items":        "deleteditems",
	"trash":                "deleteditems",
	"junkemail":            "junkemail",
	"junk email":           "junkemail",
	"junk":                 "junkemail",
	"clutter":              "clutter",
	"conversationhistory":  "conversationhistory",
	"conversation history": "conversationhistory",
	"scheduled":            "scheduled",
}

// normalizeName canonicalizes a folder display name for comparison:
// NFC normalization (macOS input arrives NFD) then Unicode case folding.
func normalizeName(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// ResolveFolder maps a user-supplied folder argument to something the API
// accepts: a well-known folder name when the argument matches one, otherwise
// the argument unchanged (assumed to be a folder id).
func ResolveFolder(arg string) string {
	if wk, ok := wellKnownFolders[normalizeName(arg)]; ok {
		return wk
	}

	return arg
}
