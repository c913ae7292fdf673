package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"migrate", "seed", "create-db", "delete-db"}, names)

	seedCmd, _, err := root.Find([]string{"seed"})
	require.NoError(t, err)
	assert.NotNil(t, seedCmd.Flags().Lookup("force"))
}

func TestDeleteDBRequiresConfirmation(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"delete-db"})

	err := root.Execute()
	assert.ErrorIs(t, err, errNotConfirmed)
}

func TestUnknownArgumentsAreRejected(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"migrate", "extra"})

	assert.Error(t, root.Execute())
}
