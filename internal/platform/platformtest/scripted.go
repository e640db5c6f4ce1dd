// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package platformtest provides a scripted platform.Adapter for tests.
package platformtest

import (
	"sync"

	"github.com/ManuGH/tvcaps/internal/platform"
)

// Scripted answers every adapter query from its fields and counts calls.
// The zero value is a generic runtime that supports nothing.
type Scripted struct {
	UA      string
	Globals []string

	// Answers maps exact content types to CanPlayType answers.
	Answers map[string]string
	// CanPlay, when set, takes precedence over Answers.
	CanPlay func(contentType string) (string, error)

	MediaSource bool
	ElementErr  error

	// Panel backs ProductInfo. Nil means the API is unavailable.
	Panel func() (bool, error)

	mu               sync.Mutex
	elements         int
	canPlayCalls     int
	mediaSourceCalls int
	panelCalls       int
}

var _ platform.Adapter = (*Scripted)(nil)

// Probably builds an Answers map that reports "probably" for every content type.
func Probably(contentTypes ...string) map[string]string {
	m := make(map[string]string, len(contentTypes))
	for _, ct := range contentTypes {
		m[ct] = "probably"
	}
	return m
}

func (s *Scripted) UserAgent() string { return s.UA }

func (s *Scripted) HasGlobal(name string) bool {
	for _, g := range s.Globals {
		if g == name {
			return true
		}
	}
	return false
}

func (s *Scripted) NewMediaElement() (platform.MediaElement, error) {
	s.mu.Lock()
	s.elements++
	s.mu.Unlock()
	if s.ElementErr != nil {
		return nil, s.ElementErr
	}
	return element{s: s}, nil
}

func (s *Scripted) HasMediaSource() bool {
	s.mu.Lock()
	s.mediaSourceCalls++
	s.mu.Unlock()
	return s.MediaSource
}

func (s *Scripted) ProductInfo() (platform.ProductInfo, error) {
	if s.Panel == nil {
		return nil, platform.ErrUnavailable
	}
	return panel{s: s}, nil
}

// ElementsCreated returns how many media elements were requested.
func (s *Scripted) ElementsCreated() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elements
}

// CanPlayCalls returns how many CanPlayType queries were made.
func (s *Scripted) CanPlayCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canPlayCalls
}

// MediaSourceCalls returns how many HasMediaSource queries were made.
func (s *Scripted) MediaSourceCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mediaSourceCalls
}

// PanelCalls returns how many panel queries were made.
func (s *Scripted) PanelCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panelCalls
}

type element struct{ s *Scripted }

func (e element) CanPlayType(contentType string) (string, error) {
	e.s.mu.Lock()
	e.s.canPlayCalls++
	e.s.mu.Unlock()
	if e.s.CanPlay != nil {
		return e.s.CanPlay(contentType)
	}
	return e.s.Answers[contentType], nil
}

type panel struct{ s *Scripted }

func (p panel) IsUdPanelSupported() (bool, error) {
	p.s.mu.Lock()
	p.s.panelCalls++
	p.s.mu.Unlock()
	return p.s.Panel()
}
