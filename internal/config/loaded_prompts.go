package config

// LoadedPrompts holds prompt content read from files
type LoadedPrompts struct {
	SystemPrompt string
	UserPrompt   string
}

// orElse fills empty fields from fallback
func (lp LoadedPrompts) orElse(fallback LoadedPrompts) LoadedPrompts {
	if lp.SystemPrompt == "" {
		lp.SystemPrompt = fallback.SystemPrompt
	}
	if lp.UserPrompt == "" {
		lp.UserPrompt = fallback.UserPrompt
	}
	return lp
}

// AllLoadedPrompts holds loaded prompts for the global section and each operation that uses prompts
type AllLoadedPrompts struct {
	Global   LoadedPrompts
	Entities LoadedPrompts
}

// GetLoadedPrompts returns a copy of the prompts loaded from files
func (c *Config) GetLoadedPrompts() AllLoadedPrompts {
	return c.loadedPrompts
}
