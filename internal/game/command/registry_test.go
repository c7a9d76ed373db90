package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Len(t, r.Commands(), 3)
}

func TestResolve_CanonicalName(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("whisper")
	require.True(t, ok)
	assert.Equal(t, HandlerWhisper, cmd.Handler)
}

func TestResolve_Alias(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("w")
	require.True(t, ok)
	assert.Equal(t, "whisper", cmd.Name)

	cmd, ok = r.Resolve("c")
	require.True(t, ok)
	assert.Equal(t, "chat", cmd.Name)
}

func TestResolve_NoAbbreviations(t *testing.T) {
	r := DefaultRegistry()
	for _, in := range []string{"wh", "whisp", "ch", "cha", "rdy"} {
		_, ok := r.Resolve(in)
		assert.False(t, ok, in)
	}
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry([]Command{{Name: "chat"}, {Name: "chat"}})
	assert.Error(t, err)
}

func TestNewRegistry_AliasCollision(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "whisper", Aliases: []string{"w"}},
		{Name: "wave", Aliases: []string{"w"}},
	})
	assert.Error(t, err)
}

func TestCommandsByCategory(t *testing.T) {
	cats := DefaultRegistry().CommandsByCategory()
	require.Len(t, cats[CategoryCommunication], 2)
	assert.Equal(t, "chat", cats[CategoryCommunication][0].Name)
	assert.Equal(t, "whisper", cats[CategoryCommunication][1].Name)
	require.Len(t, cats[CategoryLobby], 1)
}

func TestResolve_FoldsCase(t *testing.T) {
	r := DefaultRegistry()
	for _, in := range []string{"WHISPER", "Whisper", "W", "Chat", "C", "READY"} {
		_, ok := r.Resolve(in)
		assert.True(t, ok, in)
	}
}

func TestNewRegistry_RejectsMalformedTokens(t *testing.T) {
	for _, cmds := range [][]Command{
		{{Name: ""}},
		{{Name: "Chat"}},
		{{Name: "chat", Aliases: []string{"C"}}},
		{{Name: "chat", Aliases: []string{"c h"}}},
		{{Name: "chat", Aliases: []string{"chat"}}},
		{{Name: "chat"}, {Name: "wave", Aliases: []string{"chat"}}},
	} {
		_, err := NewRegistry(cmds)
		assert.Error(t, err, "%+v", cmds)
	}
}

func TestCommands_SortedAndIndependent(t *testing.T) {
	r := DefaultRegistry()
	cmds := r.Commands()
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"chat", "ready", "whisper"}, names)

	cmds[0] = nil
	assert.NotNil(t, r.Commands()[0])
}
