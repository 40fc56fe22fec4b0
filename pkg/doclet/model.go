package doclet

// SourcePosition locates a construct in a source file.
type SourcePosition interface {
	File() string
	Line() int
	Column() int
}

// Tag is one documentation tag, such as "@see" or "@apiviz.uses".
type Tag interface {
	Name() string
	Kind() string
	Text() string
	Position() SourcePosition
}

// SeeTag is a cross-reference tag.
type SeeTag interface {
	Tag
	Label() string
	ReferencedClassName() string
}

// Doc is the part of the model shared by every documented construct.
type Doc interface {
	Name() string
	CommentText() string
	RawCommentText() string
	SetRawCommentText(text string)
	Tags() []Tag
	TagsNamed(name string) []Tag
	SeeTags() []SeeTag
	InlineTags() []Tag
	FirstSentenceTags() []Tag
	Position() SourcePosition

	// Compare orders documented constructs by name.
	Compare(other Doc) int

	IsAnnotationType() bool
	IsAnnotationTypeElement() bool
	IsClass() bool
	IsConstructor() bool
	IsEnum() bool
	IsEnumConstant() bool
	IsError() bool
	IsException() bool
	IsField() bool
	IsIncluded() bool
	IsInterface() bool
	IsMethod() bool
	IsOrdinaryClass() bool
}

// ErrorReporter sends diagnostics to the host. The At variants attach a
// source position.
type ErrorReporter interface {
	PrintError(msg string)
	PrintErrorAt(pos SourcePosition, msg string)
	PrintWarning(msg string)
	PrintWarningAt(pos SourcePosition, msg string)
	PrintNotice(msg string)
	PrintNoticeAt(pos SourcePosition, msg string)
}

// PackageDoc documents a package.
type PackageDoc interface {
	Doc
	Classes() []ClassDoc
}

// ClassDoc documents a class, interface, enum, or annotation type.
type ClassDoc interface {
	Doc
	QualifiedName() string
	ContainingPackage() PackageDoc
}

// RootDoc is the root of a processed documentation tree.
type RootDoc interface {
	Doc
	ErrorReporter

	// Options returns the host's command-line options, one row per flag:
	// the flag followed by its values.
	Options() [][]string

	SpecifiedPackages() []PackageDoc
	SpecifiedClasses() []ClassDoc
	Classes() []ClassDoc
	PackageNamed(name string) PackageDoc
	ClassNamed(qualifiedName string) ClassDoc
}
