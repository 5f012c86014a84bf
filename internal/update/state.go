package update

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/todo/internal/config"
)

type uiState struct {
	Filter            string   `yaml:"filter"`
	CollapsedSections []string `yaml:"collapsed_sections"`
}

func (m *Model) saveUIState() {
	if err := m.persistUIState(); err != nil {
		m.log.Warn("persist ui state failed", zap.String("path", m.stateFilePath), zap.Error(err))
	}
}

func (m *Model) persistUIState() error {
	if strings.TrimSpace(m.stateFilePath) == "" {
		return nil
	}
	dir := filepath.Dir(m.stateFilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	collapsed := make([]string, 0, len(m.Collapsed))
	for section, folded := range m.Collapsed {
		if folded {
			collapsed = append(collapsed, section)
		}
	}
	sort.Strings(collapsed)
	payload, err := yaml.Marshal(uiState{Filter: string(m.Filter), CollapsedSections: collapsed})
	if err != nil {
		return err
	}
	tmp := m.stateFilePath + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.stateFilePath)
}

func loadUIState(path string) (uiState, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return uiState{}, nil
	}
	raw, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return uiState{}, nil
		}
		return uiState{}, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return uiState{}, nil
	}
	var state uiState
	if err := yaml.Unmarshal(raw, &state); err != nil {
		return uiState{}, err
	}
	return state, nil
}

func (m *Model) applyUIState(state uiState) {
	if f, ok := config.ParseFilter(state.Filter); ok && strings.TrimSpace(state.Filter) != "" {
		m.Filter = f
	}
	for _, section := range state.CollapsedSections {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		m.Collapsed[section] = true
	}
}
