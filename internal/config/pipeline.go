package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultPipelineYAML = `# pipeline catalog: display labels for the fixed enum tokens
version: 1

statuses:
  NOVO: Novo
  CONTATO_REALIZADO: Contato realizado
  QUALIFICADO: Qualificado
  VISITA_AGENDADA: Visita agendada
  PROPOSTA_ENVIADA: Proposta enviada
  NEGOCIACAO: Negociação
  FECHADO_GANHO: Fechado (ganho)
  FECHADO_PERDIDO: Fechado (perdido)

sources:
  SITE: Site
  WHATSAPP: WhatsApp
  INDICACAO: Indicação
  PORTAL_ZAP: Portal ZAP
  PORTAL_VIVAREAL: Portal VivaReal
  PORTAL_OLX: Portal OLX
  REDES_SOCIAIS: Redes sociais
  TELEFONE: Telefone
  VISITA_ESCRITORIO: Visita ao escritório
  OUTRO: Outro

interest_types:
  COMPRA: Compra
  LOCACAO: Locação
`

// Pipeline models the pipeline catalog file. Keys are enum tokens, values are labels.
type Pipeline struct {
	Version       int               `yaml:"version"`
	Statuses      map[string]string `yaml:"statuses"`
	Sources       map[string]string `yaml:"sources"`
	InterestTypes map[string]string `yaml:"interest_types"`
}

// DefaultPipeline returns the built-in catalog.
func DefaultPipeline() (*Pipeline, error) {
	var p Pipeline
	if err := yaml.Unmarshal([]byte(defaultPipelineYAML), &p); err != nil {
		return nil, fmt.Errorf("config: parse default pipeline: %w", err)
	}
	return &p, nil
}

// LoadPipeline reads the catalog at path on top of the defaults.
// An empty path or a missing file yields the defaults.
func LoadPipeline(path string) (*Pipeline, error) {
	p, err := DefaultPipeline()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return nil, fmt.Errorf("config: read pipeline %s: %w", path, err)
	}
	return mergePipeline(p, data)
}

func mergePipeline(base *Pipeline, data []byte) (*Pipeline, error) {
	var override Pipeline
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("config: parse pipeline: %w", err)
	}
	if override.Version != 0 && override.Version != base.Version {
		return nil, fmt.Errorf("config: unsupported pipeline version %d", override.Version)
	}
	mergeLabels(base.Statuses, override.Statuses)
	mergeLabels(base.Sources, override.Sources)
	mergeLabels(base.InterestTypes, override.InterestTypes)
	return base, nil
}

func mergeLabels(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}
