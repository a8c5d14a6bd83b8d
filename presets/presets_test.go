package presets

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemos-ai/mnemos-go-sdk/store"
)

func TestAddDefaults(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, AddDefaults(ctx, st, userID))

	preset, err := st.GetPresetByName(ctx, userID, DefaultPresetName)
	require.NoError(t, err)
	assert.NotEmpty(t, preset.System)
	assert.NotEmpty(t, preset.Persona)
	assert.NotEmpty(t, preset.Human)
	assert.NotEmpty(t, preset.FunctionsSchema)

	persona, err := st.GetPersona(ctx, userID, DefaultPersonaName)
	require.NoError(t, err)
	assert.NotEmpty(t, persona.Text)

	human, err := st.GetHuman(ctx, userID, DefaultHumanName)
	require.NoError(t, err)
	assert.Contains(t, human.Text, "First name")
}

func TestCatalogNamesCarryProjectBranding(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, AddDefaults(ctx, st, userID))

	personas, err := st.ListPersonas(ctx, userID)
	require.NoError(t, err)
	names := make([]string, 0, len(personas))
	for _, p := range personas {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "mnemos_starter")
}

func TestAddDefaultsIsIdempotent(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, AddDefaults(ctx, st, userID))

	// User edits survive a reload.
	persona, err := st.GetPersona(ctx, userID, DefaultPersonaName)
	require.NoError(t, err)
	persona.Text = "edited by hand"
	require.NoError(t, st.AddPersona(ctx, persona))

	require.NoError(t, AddDefaults(ctx, st, userID))

	edited, err := st.GetPersona(ctx, userID, DefaultPersonaName)
	require.NoError(t, err)
	assert.Equal(t, "edited by hand", edited.Text)

	presets, err := st.ListPresets(ctx, userID)
	require.NoError(t, err)
	names := map[string]int{}
	for _, p := range presets {
		names[p.Name]++
	}
	for name, n := range names {
		assert.Equal(t, 1, n, "preset %s duplicated", name)
	}
}
