// Package presets ships the default preset, persona, and human catalog and
// loads it into a metadata store. The catalog is embedded YAML so the local
// backend works offline with no data files to locate.
package presets

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
	"github.com/mnemos-ai/mnemos-go-sdk/store"
)

// Well-known catalog names resolved when a caller supplies none.
const (
	DefaultPresetName  = "mnemos_chat"
	DefaultPersonaName = "sam"
	DefaultHumanName   = "basic"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type catalog struct {
	Presets []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		System      string `yaml:"system"`
		PersonaName string `yaml:"persona_name"`
		HumanName   string `yaml:"human_name"`
		Functions   []struct {
			Name        string `yaml:"name"`
			Description string `yaml:"description"`
		} `yaml:"functions"`
	} `yaml:"presets"`
	Personas []struct {
		Name string `yaml:"name"`
		Text string `yaml:"text"`
	} `yaml:"personas"`
	Humans []struct {
		Name string `yaml:"name"`
		Text string `yaml:"text"`
	} `yaml:"humans"`
}

func loadCatalog() (*catalog, error) {
	var c catalog
	if err := yaml.Unmarshal(defaultsYAML, &c); err != nil {
		return nil, fmt.Errorf("parse embedded catalog: %w", err)
	}
	return &c, nil
}

// AddDefaults loads the shipped catalog into the store for a user. It is
// idempotent: entries whose names already exist are left untouched, so user
// edits survive repeated client construction.
func AddDefaults(ctx context.Context, st store.Store, userID uuid.UUID) error {
	c, err := loadCatalog()
	if err != nil {
		return err
	}

	personaText := make(map[string]string, len(c.Personas))
	for _, p := range c.Personas {
		personaText[p.Name] = strings.TrimSpace(p.Text)
		if _, err := st.GetPersona(ctx, userID, p.Name); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		persona := &core.Persona{ID: uuid.New(), UserID: userID, Name: p.Name, Text: strings.TrimSpace(p.Text)}
		if err := st.AddPersona(ctx, persona); err != nil {
			return err
		}
	}

	humanText := make(map[string]string, len(c.Humans))
	for _, h := range c.Humans {
		humanText[h.Name] = strings.TrimSpace(h.Text)
		if _, err := st.GetHuman(ctx, userID, h.Name); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		human := &core.Human{ID: uuid.New(), UserID: userID, Name: h.Name, Text: strings.TrimSpace(h.Text)}
		if err := st.AddHuman(ctx, human); err != nil {
			return err
		}
	}

	added := 0
	for _, p := range c.Presets {
		if _, err := st.GetPresetByName(ctx, userID, p.Name); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		fns := make([]map[string]any, 0, len(p.Functions))
		for _, f := range p.Functions {
			fns = append(fns, map[string]any{
				"name":        f.Name,
				"description": f.Description,
			})
		}
		preset := &core.Preset{
			ID:              uuid.New(),
			UserID:          userID,
			Name:            p.Name,
			Description:     p.Description,
			System:          strings.TrimSpace(p.System),
			Persona:         personaText[p.PersonaName],
			PersonaName:     p.PersonaName,
			Human:           humanText[p.HumanName],
			HumanName:       p.HumanName,
			FunctionsSchema: fns,
			CreatedAt:       time.Now().UTC(),
		}
		if err := st.CreatePreset(ctx, preset); err != nil {
			return err
		}
		added++
	}
	if added > 0 {
		log.Printf("[PRESETS] Loaded %d default presets for user %s", added, userID)
	}
	return nil
}
