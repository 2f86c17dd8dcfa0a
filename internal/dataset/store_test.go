package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-insights-go/internal/config"
	"campaign-insights-go/internal/types"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestOpenLoadsBothTables(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		KeywordPath: writeFile(t, dir, "kw.csv", "Keyword,Clicks,Campaign Objective,Advertiser\nshoes,3,Sales,Acme\nsocks,1,Sales,Bolt\n"),
		DomainPath:  writeFile(t, dir, "dom.csv", "Domain,Clicks\nnews.example,4\n"),
	}
	s := Open(context.Background(), cfg)
	require.NoError(t, s.Err())

	kw, err := s.Records(types.SourceKeyword)
	require.NoError(t, err)
	assert.Len(t, kw, 2)

	tbl, err := s.Table(types.SourceDomain)
	require.NoError(t, err)
	assert.Len(t, tbl.Records, 1)

	sum := Summarize(mustTable(t, s, types.SourceKeyword))
	assert.Equal(t, 2, sum.TotalRows)
	assert.Equal(t, 2, sum.ByObjective["Sales"])
	assert.Equal(t, []string{"Acme", "Bolt"}, sum.TopAdvertisersBy["Sales"])
	assert.InDelta(t, 4, sum.TotalClicks, 1e-9)
}

func TestOpenKeepsLoadError(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		KeywordPath: writeFile(t, dir, "kw.csv", "Campaign,Clicks\nA,1\n"),
		DomainPath:  writeFile(t, dir, "dom.csv", "Domain,Clicks\nnews.example,4\n"),
	}
	s := Open(context.Background(), cfg)
	require.ErrorIs(t, s.Err(), types.ErrDataLoad)

	_, err := s.Records(types.SourceDomain)
	assert.ErrorIs(t, err, types.ErrDataLoad)
}

func mustTable(t *testing.T, s *Store, src types.Source) *Table {
	t.Helper()
	tbl, err := s.Table(src)
	require.NoError(t, err)
	return tbl
}
