package doclet

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/apiviz/pkg/observability"
	"github.com/matzehuels/apiviz/pkg/tags"
)

// KnownTagsFlag is the host option that registers custom tags.
const KnownTagsFlag = "-knowntags"

// Interceptor is a [RootDoc] that forwards to a wrapped root, filtering
// warnings about apiviz tags and advertising the tag list in Options.
type Interceptor struct {
	root      RootDoc
	tagsPath  string
	knownTags []string
	logger    *log.Logger
}

var _ RootDoc = (*Interceptor)(nil)

// Option configures an [Interceptor].
type Option func(*Interceptor)

// WithLogger sets the logger that records suppressed warnings at debug level.
func WithLogger(l *log.Logger) Option {
	return func(i *Interceptor) {
		if l != nil {
			i.logger = l
		}
	}
}

// NewInterceptor wraps root. It materializes the tag list (see [tags.Path])
// and sends the host one notice naming the file.
func NewInterceptor(root RootDoc, opts ...Option) (*Interceptor, error) {
	path, err := tags.Path()
	if err != nil {
		return nil, err
	}

	i := &Interceptor{
		root:      root,
		tagsPath:  path,
		knownTags: tags.Names(),
		logger:    discardLogger,
	}
	for _, opt := range opts {
		opt(i)
	}

	root.PrintNotice("Reading APIviz tags from: " + path)
	return i, nil
}

// Unwrap returns the wrapped root.
func (i *Interceptor) Unwrap() RootDoc { return i.root }

// TagsPath returns the materialized tag list passed as -knowntags.
func (i *Interceptor) TagsPath() string { return i.tagsPath }

// aboutTag returns the apiviz tag msg mentions, if any. A tag counts only
// when followed by a space, so "@apiviz.uses" does not match "@apiviz.usesX".
func (i *Interceptor) aboutTag(msg string) (string, bool) {
	for _, tag := range i.knownTags {
		if strings.Contains(msg, tag+" ") {
			return tag, true
		}
	}
	return "", false
}

func (i *Interceptor) suppress(msg string) bool {
	tag, ok := i.aboutTag(msg)
	if !ok {
		return false
	}
	i.logger.Debug("Suppressed host warning", "tag", tag, "msg", msg)
	observability.Doclet().OnWarningSuppressed(tag, msg)
	return true
}

// PrintWarning forwards msg unless it concerns an apiviz tag.
func (i *Interceptor) PrintWarning(msg string) {
	if i.suppress(msg) {
		return
	}
	i.root.PrintWarning(msg)
}

// PrintWarningAt forwards msg unless it concerns an apiviz tag.
func (i *Interceptor) PrintWarningAt(pos SourcePosition, msg string) {
	if i.suppress(msg) {
		return
	}
	i.root.PrintWarningAt(pos, msg)
}

// Options returns the wrapped root's options followed by one
// {"-knowntags", path} row. The wrapped rows are not modified.
func (i *Interceptor) Options() [][]string {
	opts := i.root.Options()
	out := make([][]string, 0, len(opts)+1)
	out = append(out, opts...)
	return append(out, []string{KnownTagsFlag, i.tagsPath})
}

// Forwarded unchanged.

func (i *Interceptor) PrintError(msg string)                        { i.root.PrintError(msg) }
func (i *Interceptor) PrintErrorAt(pos SourcePosition, msg string)  { i.root.PrintErrorAt(pos, msg) }
func (i *Interceptor) PrintNotice(msg string)                       { i.root.PrintNotice(msg) }
func (i *Interceptor) PrintNoticeAt(pos SourcePosition, msg string) { i.root.PrintNoticeAt(pos, msg) }

func (i *Interceptor) SpecifiedPackages() []PackageDoc          { return i.root.SpecifiedPackages() }
func (i *Interceptor) SpecifiedClasses() []ClassDoc             { return i.root.SpecifiedClasses() }
func (i *Interceptor) Classes() []ClassDoc                      { return i.root.Classes() }
func (i *Interceptor) PackageNamed(name string) PackageDoc      { return i.root.PackageNamed(name) }
func (i *Interceptor) ClassNamed(qualifiedName string) ClassDoc { return i.root.ClassNamed(qualifiedName) }

func (i *Interceptor) Name() string                  { return i.root.Name() }
func (i *Interceptor) CommentText() string           { return i.root.CommentText() }
func (i *Interceptor) RawCommentText() string        { return i.root.RawCommentText() }
func (i *Interceptor) SetRawCommentText(text string) { i.root.SetRawCommentText(text) }
func (i *Interceptor) Tags() []Tag                   { return i.root.Tags() }
func (i *Interceptor) TagsNamed(name string) []Tag   { return i.root.TagsNamed(name) }
func (i *Interceptor) SeeTags() []SeeTag             { return i.root.SeeTags() }
func (i *Interceptor) InlineTags() []Tag             { return i.root.InlineTags() }
func (i *Interceptor) FirstSentenceTags() []Tag      { return i.root.FirstSentenceTags() }
func (i *Interceptor) Position() SourcePosition      { return i.root.Position() }
func (i *Interceptor) Compare(other Doc) int         { return i.root.Compare(other) }

func (i *Interceptor) IsAnnotationType() bool        { return i.root.IsAnnotationType() }
func (i *Interceptor) IsAnnotationTypeElement() bool { return i.root.IsAnnotationTypeElement() }
func (i *Interceptor) IsClass() bool                 { return i.root.IsClass() }
func (i *Interceptor) IsConstructor() bool           { return i.root.IsConstructor() }
func (i *Interceptor) IsEnum() bool                  { return i.root.IsEnum() }
func (i *Interceptor) IsEnumConstant() bool          { return i.root.IsEnumConstant() }
func (i *Interceptor) IsError() bool                 { return i.root.IsError() }
func (i *Interceptor) IsException() bool             { return i.root.IsException() }
func (i *Interceptor) IsField() bool                 { return i.root.IsField() }
func (i *Interceptor) IsIncluded() bool              { return i.root.IsIncluded() }
func (i *Interceptor) IsInterface() bool             { return i.root.IsInterface() }
func (i *Interceptor) IsMethod() bool                { return i.root.IsMethod() }
func (i *Interceptor) IsOrdinaryClass() bool         { return i.root.IsOrdinaryClass() }
