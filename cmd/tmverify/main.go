package main

import (
	"github.com/tendermint/light-verifier/cmd/tmverify/commands"
	"github.com/tendermint/light-verifier/config"
	"github.com/tendermint/light-verifier/libs/cli"
)

func main() {
	conf := config.DefaultConfig()

	rcmd := commands.RootCommand(conf)
	rcmd.AddCommand(
		commands.MakeInitCommand(conf),
		commands.MakeTrustCommand(conf),
		commands.MakeVerifyCommand(conf),
		commands.MakeShowCommand(conf),
		commands.VersionCmd,
	)

	cmd := cli.PrepareBaseCmd(rcmd, commands.EnvPrefix, config.DefaultHome())
	_ = cli.Executor{Command: cmd}.Execute()
}
