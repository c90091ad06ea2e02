package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	global, err := c.loadPromptPair(c.NLP.CustomPrompts, "global")
	if err != nil {
		return fmt.Errorf("failed to load global prompts: %w", err)
	}

	entities, err := c.loadPromptPair(c.NLP.Entities.CustomPrompts, OperationEntities)
	if err != nil {
		return fmt.Errorf("failed to load entities prompts: %w", err)
	}

	c.loadedPrompts = AllLoadedPrompts{Global: global, Entities: entities}

	c.logPromptLoadingSummary()

	return nil
}

// loadPromptPair loads the system and user prompt files of one prompt section
func (c *Config) loadPromptPair(prompts PromptConfig, section string) (LoadedPrompts, error) {
	var loaded LoadedPrompts

	if prompts.SystemPromptFile != "" {
		content, err := loadPromptFromFile(prompts.SystemPromptFile, "system", section)
		if err != nil {
			return LoadedPrompts{}, err
		}
		loaded.SystemPrompt = content
	}

	if prompts.UserPromptFile != "" {
		content, err := loadPromptFromFile(prompts.UserPromptFile, "user", section)
		if err != nil {
			return LoadedPrompts{}, err
		}
		if !strings.Contains(content, "%s") {
			return LoadedPrompts{}, fmt.Errorf("user %s prompt file '%s' must contain a %%s placeholder for the text", section, prompts.UserPromptFile)
		}
		loaded.UserPrompt = content
	}

	return loaded, nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, promptType, section string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, section, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, section, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, section, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, section, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		promptType, section, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validateReferencedFiles checks that prompt and catalog files exist before anything is loaded
func (c *Config) validateReferencedFiles() error {
	var validationErrors []string

	validateFile := func(filePath, description string) {
		if filePath == "" {
			return
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s: %s", description, filePath))
			return
		}

		info, err := os.Stat(absPath)
		if os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s not found: %s", description, absPath))
			return
		}
		if err == nil && info.IsDir() {
			validationErrors = append(validationErrors, fmt.Sprintf("%s is a directory: %s", description, absPath))
		}
	}

	validateFile(c.NLP.CustomPrompts.SystemPromptFile, "global system prompt file")
	validateFile(c.NLP.CustomPrompts.UserPromptFile, "global user prompt file")
	validateFile(c.NLP.Entities.CustomPrompts.SystemPromptFile, "entities system prompt file")
	validateFile(c.NLP.Entities.CustomPrompts.UserPromptFile, "entities user prompt file")
	validateFile(c.Scoring.CatalogFile, "catalog file")

	if len(validationErrors) > 0 {
		return fmt.Errorf("file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// logPromptLoadingSummary logs a summary of loaded prompts
func (c *Config) logPromptLoadingSummary() {
	log.Println("[CONFIG] === Custom Prompt Loading Summary ===")

	promptChecks := []struct {
		content string
		message string
	}{
		{c.loadedPrompts.Global.SystemPrompt, "[CONFIG] Global system prompt: loaded from file"},
		{c.loadedPrompts.Global.UserPrompt, "[CONFIG] Global user prompt: loaded from file"},
		{c.loadedPrompts.Entities.SystemPrompt, "[CONFIG] Entities system prompt: loaded from file"},
		{c.loadedPrompts.Entities.UserPrompt, "[CONFIG] Entities user prompt: loaded from file"},
	}

	promptCount := 0
	for _, check := range promptChecks {
		if check.content != "" {
			log.Println(check.message)
			promptCount++
		}
	}

	if promptCount == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", promptCount)
	}

	log.Println("[CONFIG] ==========================================")
}
