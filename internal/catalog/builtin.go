package catalog

import "github.com/goliatone/go-cms-modules/internal/schema"

// Built-in module type names.
const (
	TypeAccordion    = "accordion"
	TypeTabs         = "tabs"
	TypeSlider       = "slider"
	TypeTestimonials = "testimonials"
	TypeTeamCard     = "teamcard"
	TypePictures     = "pictures"
)

// Builtin returns fresh copies of the bundled descriptors.
func Builtin() []*schema.Descriptor {
	return []*schema.Descriptor{
		schema.New(TypeAccordion).
			PromptHint("Each item is a question or topic with a concise answer.").
			Text("title", schema.Required(), schema.Default("Title"), schema.MaxLength(255)).
			RichText("content", schema.Default("Content"), schema.Describe("Markdown body shown when the panel expands.")).
			Text("icon").
			MustBuild(),
		schema.New(TypeTabs).
			PromptHint("Each item is a tab with a short label and focused content.").
			Text("title", schema.Required(), schema.Default("Tab title"), schema.MaxLength(255)).
			RichText("content", schema.Default("Tab content")).
			Text("icon").
			MustBuild(),
		schema.New(TypeSlider).
			PromptHint("Each item is a hero slide with a punchy headline.").
			Text("title", schema.Required(), schema.Default("Slide title"), schema.MaxLength(255)).
			Textarea("description", schema.Default("Slide description")).
			Image("image", schema.Describe("Slide background image.")).
			Text("button_text", schema.Default("Read more"), schema.MaxLength(64)).
			URL("url").
			MustBuild(),
		schema.New(TypeTestimonials).
			PromptHint("Each item is a realistic but fictional customer testimonial.").
			Text("name", schema.Required(), schema.Default("Client name"), schema.MaxLength(255)).
			RichText("content", schema.Default("Testimonial")).
			Text("client_company", schema.Default("Company")).
			Text("client_role").
			URL("client_website").
			Image("client_image", schema.Describe("Portrait of the client.")).
			MustBuild(),
		schema.New(TypeTeamCard).
			Label("Team card").
			PromptHint("Each item is a fictional team member profile.").
			Text("name", schema.Required(), schema.Default("Team member"), schema.MaxLength(255)).
			Text("role", schema.Default("Role")).
			RichText("bio", schema.Default("Biography")).
			URL("website").
			Image("file", schema.Describe("Portrait photo.")).
			MustBuild(),
		schema.New(TypePictures).
			PromptHint("Each item is a captioned picture for a gallery.").
			Text("title", schema.Required(), schema.Default("Picture"), schema.MaxLength(255)).
			Textarea("description").
			Image("image").
			MustBuild(),
	}
}
