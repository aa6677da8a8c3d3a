package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/tocnav/internal/config"
	"git.home.luguber.info/inful/tocnav/internal/foundation/errors"
	"git.home.luguber.info/inful/tocnav/internal/frontmatter"
	"git.home.luguber.info/inful/tocnav/internal/metrics"
	"git.home.luguber.info/inful/tocnav/internal/tree"
)

const guide = `---
title: Guide
---
# Guide

Intro text.

## Install

### Linux

#### Details

## Usage
`

type countingRecorder struct {
	metrics.NoopRecorder
	results map[metrics.ResultLabel]int
	entries []int
}

func (c *countingRecorder) IncDocumentResult(r metrics.ResultLabel) {
	if c.results == nil {
		c.results = map[metrics.ResultLabel]int{}
	}
	c.results[r]++
}

func (c *countingRecorder) ObserveTOCEntries(n int) { c.entries = append(c.entries, n) }

func TestProcess_FullPage(t *testing.T) {
	rec := &countingRecorder{}
	p := NewProcessor(config.Default(), WithRecorder(rec))

	res, err := p.Process(context.Background(), "guide.md", []byte(guide))
	require.NoError(t, err)

	assert.Equal(t, "Guide", res.Title)
	assert.Len(t, res.Headings, 5)
	assert.Equal(t, 4, res.TOCEntries())
	assert.NotEmpty(t, res.Fingerprint)

	page := string(res.Page)
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Guide</title>")
	assert.Contains(t, page, `<body><nav class="toc-container mt-5"><div class="toc-header">Table of Contents</div>`)
	assert.Contains(t, page, `<ul class="toc-sidebar toc-level toc-level-1">`)
	assert.Contains(t, page, `<a class="toc-link toc-link-h2" href="#install">Install</a>`)
	assert.NotContains(t, page, `href="#details"`)
	assert.NotContains(t, page, "<ol")
	assert.Contains(t, page, `<h4 id="details">Details</h4>`)

	assert.Equal(t, 1, rec.results[metrics.ResultSuccess])
	assert.Equal(t, []int{4}, rec.entries)
}

func TestProcess_FrontmatterOptOut(t *testing.T) {
	p := NewProcessor(config.Default())
	res, err := p.Process(context.Background(), "x.md", []byte("---\ntoc: false\n---\n# Title\n\n## Section\n"))
	require.NoError(t, err)
	assert.Nil(t, res.TOC)
	assert.NotContains(t, string(res.Page), "toc-container")
	assert.Equal(t, "Title", res.Title)
}

func TestProcess_NoHeadings(t *testing.T) {
	p := NewProcessor(config.Default())
	res, err := p.Process(context.Background(), "x.md", []byte("plain paragraph\n"))
	require.NoError(t, err)
	assert.Nil(t, res.TOC)
	assert.Zero(t, res.TOCEntries())
	assert.Contains(t, string(res.Page), "<body><p>plain paragraph</p>")
}

func TestProcess_BadFrontmatter(t *testing.T) {
	rec := &countingRecorder{}
	p := NewProcessor(config.Default(), WithRecorder(rec))
	_, err := p.Process(context.Background(), "bad.md", []byte("---\ntitle: x\n# no close\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryParse))
	assert.Equal(t, 1, rec.results[metrics.ResultFailed])
}

func TestProcess_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProcessor(config.Default()).Process(ctx, "x.md", []byte("# x\n"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestProcess_CustomConfig(t *testing.T) {
	cfg := config.Default()
	cfg.TOC.Levels = []int{2}
	cfg.TOC.HeaderText = "On this page"
	cfg.TOC.Nav = true

	res, err := NewProcessor(cfg).Process(context.Background(), "guide.md", []byte(guide))
	require.NoError(t, err)

	html, err := tree.RenderString(res.TOC)
	require.NoError(t, err)
	assert.Contains(t, html, "On this page")
	assert.Contains(t, html, `<nav class="toc-sidebar"><ul class="toc-level toc-level-1">`)
	assert.Equal(t, 2, res.TOCEntries())
}

func TestTOC_OnlyTree(t *testing.T) {
	root, err := NewProcessor(config.Default()).TOC([]byte(guide))
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, tree.KindNav, root.Kind)
	assert.Zero(t, tree.Count(root, tree.KindOrderedList))
}

func TestTOC_FrontmatterOptOut(t *testing.T) {
	root, err := NewProcessor(config.Default()).TOC([]byte("---\ntoc: false\n---\n# A\n\n## B\n"))
	require.NoError(t, err)
	assert.Nil(t, root)
}

func TestFingerprint_ChangesWithContent(t *testing.T) {
	a, err := frontmatter.Parse([]byte("---\ntitle: a\n---\nbody\n"))
	require.NoError(t, err)
	b, err := frontmatter.Parse([]byte("---\ntitle: a\n---\nbody changed\n"))
	require.NoError(t, err)
	a2, err := frontmatter.Parse([]byte("---\ntitle: a\n---\nbody\n"))
	require.NoError(t, err)

	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
	assert.Equal(t, Fingerprint(a), Fingerprint(a2))
}

func TestProcess_ConcurrentUse(t *testing.T) {
	p := NewProcessor(config.Default())
	done := make(chan error, 8)
	for range 8 {
		go func() {
			_, err := p.Process(context.Background(), "guide.md", []byte(guide))
			done <- err
		}()
	}
	for range 8 {
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("timeout")
		}
	}
}

func TestProcess_SlugIDsLinkTOCToHeadings(t *testing.T) {
	cfg := config.Default()
	cfg.Markdown.SlugIDs = true

	res, err := NewProcessor(cfg).Process(context.Background(), "de.md", []byte("# Über uns\n\n## Größe\n"))
	require.NoError(t, err)

	page := string(res.Page)
	assert.Contains(t, page, `href="#uber-uns"`)
	assert.Contains(t, page, `id="uber-uns"`)
	assert.Contains(t, page, `href="#grosse"`)
	assert.Contains(t, page, `id="grosse"`)
}
