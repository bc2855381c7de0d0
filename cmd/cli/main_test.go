package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-linkbio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
)

func newTestTool(t *testing.T) *tool {
	t.Helper()
	repo, err := sqlite.NewSQLiteRepository(fmt.Sprintf("file:cli_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return &tool{repo: repo, log: zerolog.Nop(), timeout: time.Second, concurrency: 2}
}

func seedProfile(t *testing.T, tl *tool, id, username string, orders ...int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, tl.repo.CreateProfile(ctx, &domain.Profile{
		ID: id, Username: username, DisplayName: username, TemplateName: "minimal", ThemeID: 1,
	}))
	for i, order := range orders {
		require.NoError(t, tl.repo.Create(ctx, &domain.Link{
			ID: fmt.Sprintf("%s-%d", id, i), ProfileID: id, Title: fmt.Sprintf("link %d", i),
			URL: "https://example.com", Icon: domain.IconLink, OrderIndex: order, IsActive: true,
		}))
	}
}

func TestCompact(t *testing.T) {
	tl := newTestTool(t)
	seedProfile(t, tl, "p1", "alice", 3, 7, 12)

	links, err := tl.compact(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, links, 3)

	stored, err := tl.repo.List(context.Background(), "p1")
	require.NoError(t, err)
	for i, l := range stored {
		assert.Equal(t, i, l.OrderIndex)
		assert.Equal(t, fmt.Sprintf("p1-%d", i), l.ID)
	}

	_, err = tl.compact(context.Background(), "missing")
	assert.True(t, domain.IsNotFound(err))
}

func TestExportImport(t *testing.T) {
	tl := newTestTool(t)
	seedProfile(t, tl, "p1", "alice", 0, 1)
	seedProfile(t, tl, "p2", "bob", 0)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, tl.export(ctx, "p1", &buf))

	var doc exportDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Links, 2)
	assert.Equal(t, "alice", doc.Profile.Username)

	// p1's ids already exist, so only renamed ones land in p2
	doc.Links[0].ID = "imported-0"
	doc.Links[1].ID = "imported-1"
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	n, err := tl.importLinks(ctx, "p2", bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stored, err := tl.repo.List(ctx, "p2")
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, []string{"p2-0", "imported-0", "imported-1"}, []string{stored[0].ID, stored[1].ID, stored[2].ID})
	assert.Equal(t, 2, stored[2].OrderIndex)

	n, err = tl.importLinks(ctx, "p2", strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.Zero(t, n)
}
