package disposal

// Guidelines is the static disposal guidance document served by the
// guidelines endpoint.
type Guidelines struct {
	Title    string   `json:"title"`
	Sections []string `json:"sections"`
}

// DefaultGuidelines returns the standing disposal guidance. The content is
// static; it does not depend on any remote service.
func DefaultGuidelines() Guidelines {
	return Guidelines{
		Title: "Safe medicine disposal guidelines",
		Sections: []string{
			"Prefer take-back: pharmacy take-back programs and community collection events are the safest way to dispose of unneeded medicine.",
			"Household disposal: if no take-back option is available, mix medicine with an unpalatable substance such as used coffee grounds or cat litter, seal it in a bag, and place it in household trash.",
			"Protect your privacy: scratch out all personal information on prescription labels before discarding packaging.",
			"Do not flush: only flush medicine when the label or patient information explicitly instructs it.",
			"Controlled substances: return controlled medicines to an authorized collector; transferring them to another person is illegal.",
			"Donation: only unopened, in-date, non-controlled medicine can be considered for donation, and only through a verified donation center.",
		},
	}
}
