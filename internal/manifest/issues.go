package manifest

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// ValidationResult is the outcome of Validate or Check.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is one problem found in a manifest.
type ValidationIssue struct {
	Path    string // JSON pointer into the document, "/links/0/target"
	Message string
	Keyword string // schema keyword, or "contained"/"exists" for file checks
}

// String renders the issue with a manifest-style field reference,
// "links[0].target: ...".
func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return field(strings.Split(strings.TrimPrefix(i.Path, "/"), "/")) + ": " + i.Message
}

// issueSet accumulates issues in discovery order, dropping repeats.
type issueSet struct {
	issues []ValidationIssue
	seen   map[ValidationIssue]bool
}

func (s *issueSet) add(at []string, keyword, msg string) {
	is := ValidationIssue{Keyword: keyword, Message: msg}
	if len(at) > 0 {
		is.Path = "/" + strings.Join(at, "/")
	}
	if s.seen == nil {
		s.seen = make(map[ValidationIssue]bool)
	}
	if s.seen[is] {
		return
	}
	s.seen[is] = true
	s.issues = append(s.issues, is)
}

func (s *issueSet) result() *ValidationResult {
	return &ValidationResult{Valid: len(s.issues) == 0, Issues: s.issues}
}

// addSchemaError records the leaves of a schema validation error. Inner
// nodes only group their causes.
func (s *issueSet) addSchemaError(ve *jsonschema.ValidationError) {
	if len(ve.Causes) > 0 {
		for _, c := range ve.Causes {
			s.addSchemaError(c)
		}
		return
	}
	if ve.ErrorKind == nil {
		return
	}
	kw := ve.ErrorKind.KeywordPath()
	if len(kw) == 0 {
		return
	}
	s.add(ve.InstanceLocation, kw[len(kw)-1], describe(ve.InstanceLocation, ve.ErrorKind))
}

// describe words a schema failure in terms of manifest fields.
func describe(at []string, k jsonschema.ErrorKind) string {
	inLink := len(at) == 2 && at[0] == "links"
	switch k := k.(type) {
	case *kind.Required:
		if inLink && slices.Contains(k.Missing, "pluginCommand") {
			return "pluginCommand required for plugin links"
		}
		if inLink {
			return strings.Join(k.Missing, ", ") + " required for every link"
		}
	case *kind.Enum:
		if len(at) > 0 && at[len(at)-1] == "installType" {
			return fmt.Sprintf("unknown install type %v", k.Got)
		}
		if len(at) == 1 && at[0] == "tool" {
			return fmt.Sprintf("unknown tool %v", k.Got)
		}
	case *kind.Pattern:
		if len(at) == 1 && at[0] == "name" {
			return fmt.Sprintf("profile name %q must start with a letter or digit and use only letters, digits, '.', '_' or '-'", k.Got)
		}
	case *kind.Type:
		if len(at) == 0 {
			return "manifest must be a mapping, got " + k.Got
		}
	}
	return k.LocalizedString(printer)
}

// field turns pointer segments into "links[0].target".
func field(at []string) string {
	var b strings.Builder
	for _, seg := range at {
		if _, err := strconv.Atoi(seg); err == nil {
			b.WriteString("[" + seg + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}
