package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tasklab/internal/config"
)

type cliFlags struct {
	server   string
	username string
	password string
	debug    bool
}

func (f *cliFlags) configOptions() []config.Option {
	return []config.Option{
		config.WithOverride(func(cfg *config.Config) {
			if f.server != "" {
				cfg.ServerURL = f.server
			}
			if f.username != "" {
				cfg.Username = f.username
			}
			if f.debug {
				cfg.Debug = true
			}
		}),
	}
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:   "tasklab",
		Short: "Submit scripts to a task backend and watch them run",
		Long: "tasklab is a client for a script-execution backend: log in, submit\n" +
			"tasks, and watch their state converge via polling. Without a\n" +
			"subcommand it starts the interactive terminal UI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.server, "server", "", "backend base URL (overrides config)")
	root.PersistentFlags().StringVarP(&flags.username, "username", "u", "", "backend username")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "verbose debug log")

	root.AddCommand(newListCmd(flags))
	root.AddCommand(newSubmitCmd(flags))
	root.AddCommand(newVersionCmd())

	return root
}

func runTUI(flags *cliFlags) error {
	container, err := buildContainer(flags.configOptions()...)
	if err != nil {
		return err
	}
	defer container.Cleanup()

	model := newTUIModel(container.Controller, container.Config.Username)
	program := tea.NewProgram(model, tea.WithAltScreen())

	// Poll snapshots land in the Update loop as messages; nothing outside
	// the program mutates the model.
	container.notifier.attach(func(seq uint64) {
		program.Send(snapshotMsg{seq: seq})
	})

	_, err = program.Run()
	return err
}

// loginForOneShot authenticates for the non-interactive subcommands. The
// password comes from TASKLAB_PASSWORD or the --password flag; prompting is
// left to the interactive UI.
func loginForOneShot(ctx context.Context, container *Container, flags *cliFlags) error {
	username := flags.username
	if username == "" {
		username = container.Config.Username
	}
	password := flags.password
	if password == "" {
		password = os.Getenv("TASKLAB_PASSWORD")
	}
	if username == "" || password == "" {
		return fmt.Errorf("username and password required (use --username/--password or TASKLAB_PASSWORD)")
	}

	token, err := container.Gateway.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}
	container.Session.SetCredential(token)
	return nil
}

func newListCmd(flags *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Log in, fetch the task list once, and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(flags.configOptions()...)
			if err != nil {
				return err
			}
			defer container.Cleanup()

			ctx := cmd.Context()
			if err := loginForOneShot(ctx, container, flags); err != nil {
				return err
			}

			tasks, err := container.Gateway.ListTasks(ctx)
			if err != nil {
				return err
			}

			if len(tasks) == 0 {
				fmt.Println("no tasks")
				return nil
			}

			stateColor := color.New(color.FgCyan)
			dimColor := color.New(color.Faint)
			for _, rec := range tasks {
				name := rec.Name()
				if name == "" {
					name = dimColor.Sprint("(no name)")
				}
				fmt.Printf("%-8s %-30s %s\n", "#"+rec.ID(), name, stateColor.Sprint(rec.State()))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&flags.password, "password", "p", "", "backend password")
	return cmd
}

func newSubmitCmd(flags *cliFlags) *cobra.Command {
	var lang, name, code, file string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Log in and submit one task",
		RunE: func(cmd *cobra.Command, args []string) error {
			if code == "" && file == "" {
				return fmt.Errorf("either --code or --file is required")
			}
			if code == "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				code = string(data)
			}

			container, err := buildContainer(flags.configOptions()...)
			if err != nil {
				return err
			}
			defer container.Cleanup()

			ctx := cmd.Context()
			if err := loginForOneShot(ctx, container, flags); err != nil {
				return err
			}

			id, err := container.Gateway.CreateTask(ctx, lang, name, code)
			if err != nil {
				return err
			}

			color.New(color.FgGreen).Printf("Task #%s created\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "script language tag")
	cmd.Flags().StringVarP(&name, "name", "n", "", "task display name")
	cmd.Flags().StringVarP(&code, "code", "c", "", "script source")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read script source from file")
	cmd.Flags().StringVarP(&flags.password, "password", "p", "", "backend password")
	_ = cmd.MarkFlagRequired("lang")

	return cmd
}
