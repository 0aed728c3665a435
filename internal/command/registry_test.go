package command

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(*discordgo.Message, []string) error { return nil }

func TestRegistryResolvesAliases(t *testing.T) {
	m := NewModule("search")
	m.MustAdd(Info{Name: "anime", Aliases: []string{"search"}}, noop)

	r := NewRegistry(m)

	byName, ok := r.Resolve("anime")
	require.True(t, ok)
	byAlias, ok := r.Resolve("search")
	require.True(t, ok)
	assert.Same(t, byName, byAlias)

	_, ok = r.Resolve("Anime")
	assert.False(t, ok, "resolution is case-sensitive")
}

func TestRegistryFirstRegistrationWins(t *testing.T) {
	first := NewModule("first")
	first.MustAdd(Info{Name: "ping", Help: &Help{Short: "first"}}, noop)
	second := NewModule("second")
	second.MustAdd(Info{Name: "ping", Help: &Help{Short: "second"}}, noop)
	second.MustAdd(Info{Name: "other", Aliases: []string{"ping"}}, noop)

	r := NewRegistry(first, second)

	c, ok := r.Resolve("ping")
	require.True(t, ok)
	assert.Equal(t, "first", c.Info.Help.Short)

	// The colliding alias is skipped but the command itself survives.
	_, ok = r.Resolve("other")
	assert.True(t, ok)
}

func TestRegistryCommandsKeepRegistrationOrder(t *testing.T) {
	a := NewModule("a")
	a.MustAdd(Info{Name: "one"}, noop)
	a.MustAdd(Info{Name: "two"}, noop)
	b := NewModule("b")
	b.MustAdd(Info{Name: "three"}, noop)

	r := NewRegistry(a, b)

	var names []string
	for _, c := range r.Commands() {
		names = append(names, c.Info.Name)
	}
	assert.Equal(t, []string{"one", "two", "three"}, names)
}

func TestAddRequiresName(t *testing.T) {
	m := NewModule("broken")
	assert.Error(t, m.Add(Info{}, noop))
	assert.Panics(t, func() { m.MustAdd(Info{}, noop) })
}
