package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writePromptFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create test prompt file %s: %v", name, err)
	}
	return path
}

func TestLoadPromptsFromFiles(t *testing.T) {
	tempDir := t.TempDir()

	systemPromptContent := "Extract named entities from resumes"
	userPromptContent := "Text to analyze:\n%s"

	systemPromptFile := writePromptFile(t, tempDir, "system.entities.md", systemPromptContent)
	userPromptFile := writePromptFile(t, tempDir, "user.entities.md", userPromptContent)

	config := &Config{
		NLP: NLPConfig{
			Entities: OperationNLPConfig{
				CustomPrompts: PromptConfig{
					SystemPromptFile: systemPromptFile,
					UserPromptFile:   userPromptFile,
				},
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	loaded := config.GetLoadedPrompts().Entities

	if loaded.SystemPrompt != systemPromptContent {
		t.Errorf("Expected loaded system prompt content '%s', got '%s'", systemPromptContent, loaded.SystemPrompt)
	}

	if loaded.UserPrompt != userPromptContent {
		t.Errorf("Expected loaded user prompt content '%s', got '%s'", userPromptContent, loaded.UserPrompt)
	}

	if config.NLP.Entities.CustomPrompts.SystemPromptFile != systemPromptFile {
		t.Error("Expected system prompt file path to be preserved")
	}
}

func TestLoadPromptsFromFilesRequiresPlaceholder(t *testing.T) {
	tempDir := t.TempDir()
	userPromptFile := writePromptFile(t, tempDir, "user.md", "No placeholder here")

	config := &Config{
		NLP: NLPConfig{
			CustomPrompts: PromptConfig{UserPromptFile: userPromptFile},
		},
	}

	err := config.loadPromptsFromFiles()
	if err == nil {
		t.Fatal("Expected error for user prompt without placeholder")
	}
	if !strings.Contains(err.Error(), "placeholder") {
		t.Errorf("Expected placeholder error, got: %v", err)
	}
}

func TestValidateReferencedFiles(t *testing.T) {
	tempDir := t.TempDir()
	validFile := writePromptFile(t, tempDir, "valid.md", "Valid content")

	config := &Config{
		NLP: NLPConfig{
			CustomPrompts: PromptConfig{SystemPromptFile: validFile},
		},
	}

	if err := config.validateReferencedFiles(); err != nil {
		t.Errorf("Expected validation to pass for valid file, got error: %v", err)
	}

	config.Scoring.CatalogFile = filepath.Join(tempDir, "missing-catalog.yaml")

	err := config.validateReferencedFiles()
	if err == nil {
		t.Fatal("Expected validation to fail for non-existent catalog file")
	}
	if !strings.Contains(err.Error(), "catalog file not found") {
		t.Errorf("Expected catalog file error, got: %v", err)
	}

	config.Scoring.CatalogFile = tempDir
	if err := config.validateReferencedFiles(); err == nil {
		t.Error("Expected validation to fail when catalog path is a directory")
	}
}

func TestLoadPromptFromFile(t *testing.T) {
	tempDir := t.TempDir()

	content := "Test prompt content"
	testFile := writePromptFile(t, tempDir, "test.md", "\n  "+content+"  \n")

	loadedContent, err := loadPromptFromFile(testFile, "system", "entities")
	if err != nil {
		t.Fatalf("Failed to load prompt from file: %v", err)
	}

	if loadedContent != content {
		t.Errorf("Expected content '%s', got '%s'", content, loadedContent)
	}

	emptyFile := writePromptFile(t, tempDir, "empty.md", "   \n")
	if _, err := loadPromptFromFile(emptyFile, "system", "entities"); err == nil {
		t.Error("Expected error for empty file")
	}

	if _, err := loadPromptFromFile(filepath.Join(tempDir, "nonexistent.md"), "system", "entities"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestPromptFileIntegration(t *testing.T) {
	tempDir := t.TempDir()

	globalSystem := "Global system prompt"
	entitiesUser := "Entities user prompt: %s"

	globalSystemFile := writePromptFile(t, tempDir, "system.md", globalSystem)
	entitiesUserFile := writePromptFile(t, tempDir, "user.md", entitiesUser)

	config := &Config{
		NLP: NLPConfig{
			Provider:   ProviderGemini,
			Timeout:    30 * time.Second,
			MaxRetries: 2,
			CustomPrompts: PromptConfig{
				SystemPromptFile: globalSystemFile,
			},
			Entities: OperationNLPConfig{
				CustomPrompts: PromptConfig{
					UserPromptFile: entitiesUserFile,
				},
			},
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxFileSize:      1024 * 1024,
		},
	}

	config.applyFallbacks()

	if err := config.validateReferencedFiles(); err != nil {
		t.Fatalf("Referenced file validation failed: %v", err)
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	entities := config.GetEntitiesConfig()

	if entities.LoadedPrompts.SystemPrompt != globalSystem {
		t.Errorf("Expected global system prompt fallback '%s', got '%s'", globalSystem, entities.LoadedPrompts.SystemPrompt)
	}

	if entities.LoadedPrompts.UserPrompt != entitiesUser {
		t.Errorf("Expected entities user prompt '%s', got '%s'", entitiesUser, entities.LoadedPrompts.UserPrompt)
	}

	if entities.CustomPrompts.SystemPromptFile != globalSystemFile {
		t.Error("Expected global system prompt file path to be inherited")
	}
}
