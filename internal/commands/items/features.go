package itemscmd

// FeatureGates exposes runtime toggles read by the handlers. Nil functions
// mean enabled.
type FeatureGates struct {
	GenerationEnabled   func() bool
	TranslationsEnabled func() bool
}

func (g FeatureGates) generationEnabled() bool {
	if g.GenerationEnabled == nil {
		return true
	}
	return g.GenerationEnabled()
}

func (g FeatureGates) translationsEnabled() bool {
	if g.TranslationsEnabled == nil {
		return true
	}
	return g.TranslationsEnabled()
}
