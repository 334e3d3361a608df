package schema

import "strings"

// FieldOption adjusts a field while it is being declared.
type FieldOption func(*Field)

func Required() FieldOption { return func(f *Field) { f.Required = true } }

func Default(value any) FieldOption { return func(f *Field) { f.Default = value } }

func Describe(text string) FieldOption { return func(f *Field) { f.Description = text } }

func MaxLength(n int) FieldOption { return func(f *Field) { f.MaxLength = n } }

// Labelled overrides the humanised label derived from the field name.
func Labelled(label string) FieldOption { return func(f *Field) { f.Label = label } }

// Builder declares descriptors fluently:
//
//	schema.New("slider").Label("Slider").Text("title", schema.Required()).Image("image").Build()
type Builder struct {
	desc Descriptor
}

func New(moduleType string) *Builder {
	return &Builder{desc: Descriptor{Type: strings.TrimSpace(moduleType)}}
}

func (b *Builder) Label(label string) *Builder {
	b.desc.Label = label
	return b
}

func (b *Builder) PromptHint(hint string) *Builder {
	b.desc.PromptHint = hint
	return b
}

func (b *Builder) Text(name string, opts ...FieldOption) *Builder {
	return b.add(name, KindText, opts)
}

func (b *Builder) Textarea(name string, opts ...FieldOption) *Builder {
	return b.add(name, KindTextarea, opts)
}

func (b *Builder) RichText(name string, opts ...FieldOption) *Builder {
	return b.add(name, KindRichText, opts)
}

func (b *Builder) URL(name string, opts ...FieldOption) *Builder {
	return b.add(name, KindURL, opts)
}

// Image declares an image field. The first one becomes the descriptor's
// generation target.
func (b *Builder) Image(name string, opts ...FieldOption) *Builder {
	if b.desc.ImageField == "" {
		b.desc.ImageField = strings.TrimSpace(name)
	}
	return b.add(name, KindImage, opts)
}

func (b *Builder) add(name string, kind Kind, opts []FieldOption) *Builder {
	field := Field{Name: strings.TrimSpace(name), Kind: kind}
	for _, opt := range opts {
		opt(&field)
	}
	if field.Label == "" {
		field.Label = humanize(field.Name)
	}
	b.desc.Fields = append(b.desc.Fields, field)
	return b
}

// Build validates and returns the descriptor.
func (b *Builder) Build() (*Descriptor, error) {
	desc := b.desc.Clone()
	if desc.Label == "" {
		desc.Label = humanize(desc.Type)
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return desc, nil
}

// MustBuild panics on an invalid descriptor. Intended for package-level catalogs.
func (b *Builder) MustBuild() *Descriptor {
	desc, err := b.Build()
	if err != nil {
		panic(err)
	}
	return desc
}

func humanize(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
