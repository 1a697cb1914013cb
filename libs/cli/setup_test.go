package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupEnv(t *testing.T) {
	assert, require := assert.New(t), require.New(t)

	cases := []struct {
		args     []string
		env      map[string]string
		expected string
	}{
		{nil, nil, ""},
		{[]string{"--foobar", "bang!"}, nil, "bang!"},
		// make sure reset is good
		{nil, nil, ""},
		{nil, map[string]string{"DEMO_FOOBAR": "good"}, "good"},
		// and that cli overrides env...
		{[]string{"--foobar", "important"},
			map[string]string{"DEMO_FOOBAR": "ignored"}, "important"},
	}

	for idx, tc := range cases {
		i := strconv.Itoa(idx)
		// test command that store value of foobar in local variable
		var foo string
		cmd := &cobra.Command{
			Use: "demo",
			RunE: func(cmd *cobra.Command, args []string) error {
				foo = viper.GetString("foobar")
				return nil
			},
		}
		cmd.Flags().String("foobar", "", "Some test value from config")
		PrepareBaseCmd(cmd, "DEMO", "/qwerty/asdfgh") // some missing dir..

		viper.Reset()
		err := runWithArgs(t, cmd, tc.args, tc.env)
		require.NoError(err, i)
		assert.Equal(tc.expected, foo, i)
	}
}

func TestSetupConfig(t *testing.T) {
	// we pre-create two config files we can refer to in the rest of
	// the test cases.
	cval1 := "fubble"
	conf1 := tempConfigDir(t, fmt.Sprintf("boo = %q\n", cval1))
	cval2 := "whizbang"
	conf2 := tempConfigDir(t, fmt.Sprintf("boo = %q\n", cval2))

	cases := []struct {
		args     []string
		env      map[string]string
		expected string
	}{
		{nil, nil, ""},
		// setting on the command line
		{[]string{"--boo", "haha"}, nil, "haha"},
		{[]string{"--home", conf1}, nil, cval1},
		// check env and home both work
		{nil, map[string]string{"RD_HOME": conf2}, cval2},
		// the flag wins over the config file
		{[]string{"--boo", "haha", "--home", conf1}, nil, "haha"},
	}

	for idx, tc := range cases {
		i := strconv.Itoa(idx)
		// test command that store value of boo in local variable
		var boo string
		cmd := &cobra.Command{
			Use: "reader",
			RunE: func(cmd *cobra.Command, args []string) error {
				boo = viper.GetString("boo")
				return nil
			},
		}
		cmd.Flags().String("boo", "", "Some test value from config")
		PrepareBaseCmd(cmd, "RD", "/qwerty/asdfgh") // some missing dir...

		viper.Reset()
		err := runWithArgs(t, cmd, tc.args, tc.env)
		require.NoError(t, err, i)
		assert.Equal(t, tc.expected, boo, i)
	}
}

func TestPrepareBaseCmdKeepsPreRun(t *testing.T) {
	var calls []string
	cmd := &cobra.Command{
		Use: "ordered",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			calls = append(calls, "pre-run:"+viper.GetString(HomeFlag))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			calls = append(calls, "run")
			return nil
		},
	}
	home := t.TempDir()
	PrepareBaseCmd(cmd, "ORD", home)

	viper.Reset()
	require.NoError(t, runWithArgs(t, cmd, nil, nil))
	assert.Equal(t, []string{"pre-run:" + home, "run"}, calls)
}

func TestBindFlagsLoadViperBadConfig(t *testing.T) {
	home := tempConfigDir(t, "boo = ")
	cmd := &cobra.Command{
		Use:  "broken",
		RunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	PrepareBaseCmd(cmd, "BRK", home)

	viper.Reset()
	assert.Error(t, runWithArgs(t, cmd, nil, nil))
}

func tempConfigDir(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(contents), 0600))
	return dir
}

// runWithArgs executes the given command with the specified command line args
// and environmental variables set. It returns any error returned from cmd.Execute()
func runWithArgs(t *testing.T, cmd *cobra.Command, args []string, env map[string]string) error {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	return cmd.Execute()
}
