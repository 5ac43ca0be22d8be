package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/syntheme/internal/config"
	"github.com/jmylchreest/syntheme/internal/theme"
)

func TestSelectThemes(t *testing.T) {
	t.Cleanup(func() {
		listOpts.source, listOpts.since, listOpts.sortBy, listOpts.sortOrder = "", "", "", ""
		listOpts.limit = 0
	})

	now := time.Now()
	infos := []theme.ThemeInfo{
		{Name: "Classic", Provenance: theme.ProvenanceBundled},
		{Name: "Default", Provenance: theme.ProvenanceCustomized, ModTime: now.Add(-time.Hour)},
		{Name: "Mine", Provenance: theme.ProvenanceUser, ModTime: now.Add(-time.Minute)},
		{Name: "Old", Provenance: theme.ProvenanceUser, ModTime: now.Add(-30 * 24 * time.Hour)},
	}

	listOpts.source = "edited"
	listOpts.since = "7d"
	listOpts.sortBy = "modified"
	listOpts.sortOrder = "desc"

	got, err := selectThemes(infos)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Mine", got[0].Name)
	assert.Equal(t, "Default", got[1].Name)

	listOpts.source = "remote"
	_, err = selectThemes(infos)
	assert.Error(t, err)

	listOpts.source = ""
	listOpts.since = "soon"
	_, err = selectThemes(infos)
	assert.Error(t, err)
}

func TestExportFormat(t *testing.T) {
	cfg = config.DefaultConfig()
	t.Cleanup(func() {
		cfg = nil
		exportOpts.format = ""
	})

	tests := []struct {
		name   string
		flag   string
		dest   string
		config string
		want   theme.Format
	}{
		{name: "extension", dest: "out.json", want: theme.FormatJSON},
		{name: "yml extension", dest: "out.yml", want: theme.FormatYAML},
		{name: "flag wins", flag: "yaml", dest: "out.json", want: theme.FormatYAML},
		{name: "unknown extension uses config", dest: "out.txt", config: "json", want: theme.FormatJSON},
		{name: "no dest uses config", config: "toml", want: theme.FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exportOpts.format = tt.flag
			cfg.Export.Format = config.DefaultExportFormat
			if tt.config != "" {
				cfg.Export.Format = tt.config
			}

			got, err := exportFormat(tt.dest)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	exportOpts.format = "xml"
	_, err := exportFormat("out.toml")
	assert.Error(t, err)
}
