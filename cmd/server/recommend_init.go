// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/apex-learning/course-recommender/internal/config"
	"github.com/apex-learning/course-recommender/internal/metrics"
	"github.com/apex-learning/course-recommender/internal/recommend"
	"github.com/apex-learning/course-recommender/internal/recommend/tfidf"
	"github.com/apex-learning/course-recommender/internal/supervisor/services"
)

// buildEngineConfig maps the recommend and api config sections onto the
// engine configuration.
func buildEngineConfig(cfg *config.Config) (*recommend.Config, error) {
	rc := &cfg.Recommend

	stopWords, ok := tfidf.StopWordSet(rc.StopWords)
	if !ok {
		return nil, fmt.Errorf("unknown stop word set %q", rc.StopWords)
	}

	vec := tfidf.DefaultConfig()
	vec.StripAccents = rc.StripAccents
	vec.TokenPattern = rc.TokenPattern
	vec.StopWords = stopWords
	vec.NgramMin = rc.NgramMin
	vec.NgramMax = rc.NgramMax
	vec.MinDF = rc.MinDF
	vec.MaxDF = rc.MaxDF
	vec.MaxFeatures = rc.MaxFeatures
	vec.SublinearTF = rc.SublinearTF

	engineCfg := &recommend.Config{
		Vectorizer: vec,
		Weights: recommend.FieldWeights{
			Title:       rc.TitleWeight,
			Description: rc.DescriptionWeight,
			Category:    rc.CategoryWeight,
			Difficulty:  rc.DifficultyWeight,
			Tags:        rc.TagsWeight,
			Instructor:  rc.InstructorWeight,
		},
		Limits: recommend.LimitsConfig{
			DefaultTopN:       cfg.API.DefaultTopN,
			DescriptionLength: rc.DescriptionLength,
		},
		Cache: recommend.CacheConfig{
			Enabled:    rc.CacheEnabled,
			TTL:        rc.CacheTTL,
			MaxEntries: rc.CacheMaxEntries,
		},
		Workers: rc.Workers,
	}
	if err := engineCfg.Validate(); err != nil {
		return nil, err
	}
	return engineCfg, nil
}

// initEngine creates the engine over the given catalog reader.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEngine(cfg *config.Config, reader recommend.CatalogReader, logger zerolog.Logger) (*recommend.Engine, error) {
	engineCfg, err := buildEngineConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid recommend config: %w", err)
	}

	logger.Info().
		Int("ngram_min", engineCfg.Vectorizer.NgramMin).
		Int("ngram_max", engineCfg.Vectorizer.NgramMax).
		Float64("max_df", engineCfg.Vectorizer.MaxDF).
		Int("max_features", engineCfg.Vectorizer.MaxFeatures).
		Int("stop_words", len(engineCfg.Vectorizer.StopWords)).
		Bool("cache", engineCfg.Cache.Enabled).
		Msg("initializing recommendation engine")

	return recommend.NewEngine(engineCfg, reader, logger, recommend.WithMetrics(metrics.NewRecommendRecorder()))
}

// refreshServiceConfig maps the refresh settings.
func refreshServiceConfig(cfg *config.Config) services.RefreshServiceConfig {
	return services.RefreshServiceConfig{
		OnStartup: cfg.Recommend.RefreshOnStartup,
		Interval:  cfg.Recommend.RefreshInterval,
		Debounce:  cfg.Recommend.RefreshDebounce,
		Timeout:   cfg.Recommend.RefreshTimeout,
	}
}
