package service

import (
	"alcyxob/runrep/internal/domain"
	"alcyxob/runrep/internal/persist"
	"alcyxob/runrep/internal/repository"
	"context"
	"errors"
)

var (
	ErrInvalidTheme = errors.New("theme must be one of light, dark, system")
)

// ThemeService persists the colour scheme preference.
type ThemeService interface {
	Theme() domain.ThemeMode
	SetTheme(ctx context.Context, mode domain.ThemeMode) error
	Subscribe(fn func(domain.ThemeMode)) (cancel func())
}

type themeService struct {
	store *persist.Store[domain.ThemeMode]
}

// NewThemeStore builds the store for the theme preference.
func NewThemeStore(backend repository.KeyValueRepository, bus *persist.Bus, opts ...persist.Option) *persist.Store[domain.ThemeMode] {
	return persist.New(domain.ThemeKey, domain.DefaultTheme, backend, bus, opts...)
}

// NewThemeService creates a new ThemeService.
func NewThemeService(store *persist.Store[domain.ThemeMode]) ThemeService {
	return &themeService{store: store}
}

// Theme returns the stored preference. Anything unrecognised reads as system.
func (s *themeService) Theme() domain.ThemeMode {
	mode, _ := s.store.Value()
	if !mode.Valid() {
		return domain.DefaultTheme
	}
	return mode
}

func (s *themeService) SetTheme(ctx context.Context, mode domain.ThemeMode) error {
	if !mode.Valid() {
		return ErrInvalidTheme
	}
	s.store.Set(ctx, mode)
	return nil
}

func (s *themeService) Subscribe(fn func(domain.ThemeMode)) func() {
	return s.store.Subscribe(fn)
}
