package doclet

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Kind classifies a [StaticDoc].
type Kind int

const (
	KindRoot Kind = iota
	KindPackage
	KindClass
	KindInterface
	KindEnum
	KindAnnotationType
	KindException
	KindError
	KindField
	KindMethod
	KindConstructor
	KindEnumConstant
	KindAnnotationTypeElement
)

// Position is a fixed [SourcePosition].
type Position struct {
	Path string
	Ln   int
	Col  int
}

func (p Position) File() string { return p.Path }
func (p Position) Line() int    { return p.Ln }
func (p Position) Column() int  { return p.Col }

// String formats the position as file:line.
func (p Position) String() string {
	if p.Ln <= 0 {
		return p.Path
	}
	return fmt.Sprintf("%s:%d", p.Path, p.Ln)
}

// TextTag is a plain [Tag].
type TextTag struct {
	TagName string
	Body    string
	Pos     SourcePosition
}

func (t TextTag) Name() string             { return t.TagName }
func (t TextTag) Kind() string             { return t.TagName }
func (t TextTag) Text() string             { return t.Body }
func (t TextTag) Position() SourcePosition { return t.Pos }

// StaticDoc is an in-memory [Doc]. Embed it to build packages, classes, and
// roots.
type StaticDoc struct {
	DocName  string
	Comment  string
	Pos      SourcePosition
	TagList  []Tag
	DocKind  Kind
	Included bool
}

func (d *StaticDoc) Name() string                  { return d.DocName }
func (d *StaticDoc) CommentText() string           { return strings.TrimSpace(d.Comment) }
func (d *StaticDoc) RawCommentText() string        { return d.Comment }
func (d *StaticDoc) SetRawCommentText(text string) { d.Comment = text }
func (d *StaticDoc) Tags() []Tag                   { return d.TagList }
func (d *StaticDoc) Position() SourcePosition      { return d.Pos }
func (d *StaticDoc) Compare(other Doc) int         { return strings.Compare(d.DocName, other.Name()) }

// TagsNamed returns the tags whose name equals name, "@" included.
func (d *StaticDoc) TagsNamed(name string) []Tag {
	var out []Tag
	for _, t := range d.TagList {
		if t.Name() == name {
			out = append(out, t)
		}
	}
	return out
}

// SeeTags returns the cross-reference tags.
func (d *StaticDoc) SeeTags() []SeeTag {
	var out []SeeTag
	for _, t := range d.TagList {
		if st, ok := t.(SeeTag); ok {
			out = append(out, st)
		}
	}
	return out
}

// InlineTags returns the comment as a single text tag.
func (d *StaticDoc) InlineTags() []Tag {
	return d.textTags(d.CommentText())
}

// FirstSentenceTags returns the comment's first sentence as a text tag.
func (d *StaticDoc) FirstSentenceTags() []Tag {
	text := d.CommentText()
	if i := strings.Index(text, ". "); i >= 0 {
		text = text[:i+1]
	}
	return d.textTags(text)
}

func (d *StaticDoc) textTags(text string) []Tag {
	if text == "" {
		return nil
	}
	return []Tag{TextTag{TagName: "Text", Body: text, Pos: d.Pos}}
}

func (d *StaticDoc) IsAnnotationType() bool        { return d.DocKind == KindAnnotationType }
func (d *StaticDoc) IsAnnotationTypeElement() bool { return d.DocKind == KindAnnotationTypeElement }
func (d *StaticDoc) IsConstructor() bool           { return d.DocKind == KindConstructor }
func (d *StaticDoc) IsEnum() bool                  { return d.DocKind == KindEnum }
func (d *StaticDoc) IsEnumConstant() bool          { return d.DocKind == KindEnumConstant }
func (d *StaticDoc) IsError() bool                 { return d.DocKind == KindError }
func (d *StaticDoc) IsException() bool             { return d.DocKind == KindException }
func (d *StaticDoc) IsField() bool                 { return d.DocKind == KindField }
func (d *StaticDoc) IsIncluded() bool              { return d.Included }
func (d *StaticDoc) IsMethod() bool                { return d.DocKind == KindMethod }
func (d *StaticDoc) IsOrdinaryClass() bool         { return d.DocKind == KindClass }

// IsClass reports true for every class flavor except interfaces and
// annotation types.
func (d *StaticDoc) IsClass() bool {
	switch d.DocKind {
	case KindClass, KindEnum, KindException, KindError:
		return true
	}
	return false
}

// IsInterface reports true for interfaces and annotation types.
func (d *StaticDoc) IsInterface() bool {
	return d.DocKind == KindInterface || d.DocKind == KindAnnotationType
}

// StaticPackage is an in-memory [PackageDoc].
type StaticPackage struct {
	StaticDoc
	ClassList []ClassDoc
}

func (p *StaticPackage) Classes() []ClassDoc { return p.ClassList }

// StaticClass is an in-memory [ClassDoc].
type StaticClass struct {
	StaticDoc
	Package PackageDoc
}

// QualifiedName joins the package and class names.
func (c *StaticClass) QualifiedName() string {
	if c.Package == nil || c.Package.Name() == "" {
		return c.DocName
	}
	return c.Package.Name() + "." + c.DocName
}

func (c *StaticClass) ContainingPackage() PackageDoc { return c.Package }

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityNotice Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityNotice:
		return "notice"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Message is a diagnostic recorded by [Static].
type Message struct {
	Severity Severity
	Pos      SourcePosition
	Text     string
}

// Static is an in-memory [RootDoc]. It records every diagnostic and, when
// Logger is set, logs it as well. Diagnostics may be reported concurrently.
type Static struct {
	StaticDoc
	Opts      [][]string
	Packages  []PackageDoc
	ClassList []ClassDoc
	Logger    *log.Logger

	mu       sync.Mutex
	messages []Message
}

var _ RootDoc = (*Static)(nil)

// NewStatic returns a root with the given host options.
func NewStatic(opts ...[]string) *Static {
	return &Static{Opts: opts}
}

func (s *Static) Options() [][]string             { return s.Opts }
func (s *Static) SpecifiedPackages() []PackageDoc { return s.Packages }
func (s *Static) SpecifiedClasses() []ClassDoc    { return s.ClassList }

// Classes returns the specified classes followed by the classes of every
// specified package.
func (s *Static) Classes() []ClassDoc {
	out := append([]ClassDoc(nil), s.ClassList...)
	for _, p := range s.Packages {
		out = append(out, p.Classes()...)
	}
	return out
}

// PackageNamed returns the specified package called name, or nil.
func (s *Static) PackageNamed(name string) PackageDoc {
	for _, p := range s.Packages {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// ClassNamed returns the class with the given qualified name, or nil.
func (s *Static) ClassNamed(qualifiedName string) ClassDoc {
	for _, c := range s.Classes() {
		if c.QualifiedName() == qualifiedName {
			return c
		}
	}
	return nil
}

func (s *Static) PrintError(msg string)   { s.record(SeverityError, nil, msg) }
func (s *Static) PrintWarning(msg string) { s.record(SeverityWarning, nil, msg) }
func (s *Static) PrintNotice(msg string)  { s.record(SeverityNotice, nil, msg) }

func (s *Static) PrintErrorAt(pos SourcePosition, msg string)   { s.record(SeverityError, pos, msg) }
func (s *Static) PrintWarningAt(pos SourcePosition, msg string) { s.record(SeverityWarning, pos, msg) }
func (s *Static) PrintNoticeAt(pos SourcePosition, msg string)  { s.record(SeverityNotice, pos, msg) }

// Messages returns a copy of the diagnostics reported so far.
func (s *Static) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

func (s *Static) record(sev Severity, pos SourcePosition, msg string) {
	s.mu.Lock()
	s.messages = append(s.messages, Message{Severity: sev, Pos: pos, Text: msg})
	s.mu.Unlock()

	logger := s.Logger
	if logger == nil {
		return
	}
	var kv []any
	if pos != nil {
		kv = append(kv, "pos", fmt.Sprintf("%s:%d", pos.File(), pos.Line()))
	}
	switch sev {
	case SeverityError:
		logger.Error(msg, kv...)
	case SeverityWarning:
		logger.Warn(msg, kv...)
	default:
		logger.Info(msg, kv...)
	}
}

// discardLogger is used when no logger is configured.
var discardLogger = log.NewWithOptions(io.Discard, log.Options{})
