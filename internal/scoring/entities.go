package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resumatch/internal/catalog"
	"resumatch/internal/errors"
	"resumatch/internal/types"
)

// EntitySource extracts an entity bundle from text. It never fails.
type EntitySource interface {
	Extract(ctx context.Context, text string) types.EntityBundle
}

// catalogEntitySource finds skills by catalog scan and nothing else
type catalogEntitySource struct {
	catalog *catalog.Catalog
}

func (s catalogEntitySource) Extract(_ context.Context, text string) types.EntityBundle {
	return skillsOnly(s.catalog.Scan(text))
}

// remoteEntitySource routes recognized organizations, locations and education
// entities into the bundle; skills always come from the catalog scan.
type remoteEntitySource struct {
	recognizer EntityRecognizer
	catalog    *catalog.Catalog
	timeout    time.Duration
	logger     *errors.Logger
	recorder   Recorder
}

func (s remoteEntitySource) Extract(ctx context.Context, text string) types.EntityBundle {
	skills := s.catalog.Scan(text)

	tokens, err := s.recognize(ctx, text)
	if err != nil {
		s.logger.Warn("Remote entity recognition failed, using catalog scan",
			"component", ComponentEntities,
			"error", err.Error())
		s.recorder.RecordFallback(ctx, ComponentEntities)
		return skillsOnly(skills)
	}

	bundle := skillsOnly(skills)
	for _, token := range tokens {
		word := strings.TrimSpace(strings.TrimPrefix(token.Word, "##"))
		if word == "" {
			continue
		}
		switch entityTag(token) {
		case "ORG":
			bundle.Companies = append(bundle.Companies, word)
		case "LOC":
			bundle.Locations = append(bundle.Locations, word)
		case "EDU":
			bundle.Educations = append(bundle.Educations, word)
		}
		// PER and anything else is dropped
	}
	return bundle
}

// recognize calls the recognizer under the remote timeout, turning a panic into an error
func (s remoteEntitySource) recognize(ctx context.Context, text string) (tokens []types.TokenEntity, err error) {
	ctx, cancel := withRemoteTimeout(ctx, s.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			tokens, err = nil, fmt.Errorf("entity recognizer panicked: %v", r)
		}
	}()

	return s.recognizer.RecognizeEntities(ctx, text)
}

// entityTag resolves the entity class: entity_group when present, otherwise a B- prefixed IOB tag
func entityTag(token types.TokenEntity) string {
	if token.EntityGroup != "" {
		return strings.ToUpper(token.EntityGroup)
	}
	if tag, ok := strings.CutPrefix(token.Entity, "B-"); ok {
		return strings.ToUpper(tag)
	}
	return ""
}

func skillsOnly(skills []string) types.EntityBundle {
	if skills == nil {
		skills = []string{}
	}
	return types.EntityBundle{
		Skills:     skills,
		Companies:  []string{},
		Locations:  []string{},
		Educations: []string{},
	}
}

func withRemoteTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
