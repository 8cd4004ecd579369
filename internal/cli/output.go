package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/pf4j/pf4j-update/pkg/errors"
	"github.com/pf4j/pf4j-update/pkg/lifecycle"
	"github.com/pf4j/pf4j-update/pkg/model"
	"github.com/pf4j/pf4j-update/pkg/repository"
	"github.com/pf4j/pf4j-update/pkg/update"
)

// pluginView is one row of the plugin listings.
type pluginView struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Latest      string `json:"latest,omitempty" yaml:"latest,omitempty"`
	Installed   string `json:"installed,omitempty" yaml:"installed,omitempty"`
	Repository  string `json:"repository" yaml:"repository"`
}

type repositoryView struct {
	repository.Entry `yaml:",inline"`
	Plugins          *int `json:"plugins,omitempty" yaml:"plugins,omitempty"`
}

func newPluginViews(ctx context.Context, um *update.Manager, plugins []*model.PluginInfo) []pluginView {
	pm := um.LifecycleManager()
	views := make([]pluginView, 0, len(plugins))
	for _, p := range plugins {
		v := pluginView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Repository:  p.RepositoryID(),
		}
		if rel := um.LastPluginRelease(ctx, p.ID); rel != nil {
			v.Latest = rel.Version
		}
		if installed, ok := pm.InstalledPlugin(p.ID); ok {
			v.Installed = installed.Version
		}
		views = append(views, v)
	}
	return views
}

func renderPlugins(w io.Writer, format string, views []pluginView) error {
	return render(w, format, views, func(t table.Writer) {
		t.AppendHeader(table.Row{"ID", "Latest", "Installed", "Repository", "Description"})
		for _, v := range views {
			t.AppendRow(table.Row{v.ID, v.Latest, v.Installed, v.Repository, truncate(v.Description, MaxDescriptionLength)})
		}
	})
}

func renderInstalled(w io.Writer, format string, plugins []*lifecycle.Plugin) error {
	return render(w, format, plugins, func(t table.Writer) {
		t.AppendHeader(table.Row{"ID", "Version", "State", "Path"})
		for _, p := range plugins {
			t.AppendRow(table.Row{p.ID, p.Version, p.State, p.Path})
		}
	})
}

func renderRepositories(w io.Writer, format string, views []repositoryView) error {
	return render(w, format, views, func(t table.Writer) {
		t.AppendHeader(table.Row{"ID", "URL", "Plugins File", "Plugins"})
		for _, v := range views {
			count := ""
			if v.Plugins != nil {
				count = fmt.Sprint(*v.Plugins)
			}
			file := v.PluginsJSONFileName
			if file == "" {
				file = repository.DefaultPluginsJSONFileName
			}
			t.AppendRow(table.Row{v.ID, v.URL, file, count})
		}
	})
}

// render writes v as JSON or YAML, or builds a table with fill.
func render(w io.Writer, format string, v any, fill func(table.Writer)) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(YAMLIndent)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		t := table.NewWriter()
		t.SetOutputMirror(w)
		fill(t)
		style := table.StyleLight
		style.Options.DrawBorder = false
		t.SetStyle(style)
		t.Render()
		return nil
	default:
		return errors.ErrInvalidOutputFormatWithDetails(format)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
