package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/52North/SOS-sub013/internal/settings"
	"github.com/52North/SOS-sub013/internal/settings/filestore"
	"github.com/52North/SOS-sub013/internal/sos"
	"github.com/52North/SOS-sub013/internal/sosjson"
)

var errUsage = errors.New("wrong number of arguments")

// settingsEnv is a settings service backed by the settings file, or by
// memory when no file is given.
type settingsEnv struct {
	service       *settings.Service
	store         settings.Store
	registrations []*settings.Registration
}

func openSettings(ctx context.Context, path string) (*settingsEnv, error) {
	var store settings.Store = settings.NewMemoryStore(nil)
	if path != "" {
		fs, err := filestore.New(path)
		if err != nil {
			return nil, err
		}
		store = fs
	}

	service := settings.NewService(store,
		settings.WithProviders(
			settings.Definitions(sos.SettingDefinitions()),
			settings.Definitions(sosjson.SettingDefinitions()),
		),
		settings.WithGroups(append(sos.SettingsGroups(), sosjson.SettingsGroup)...),
	)
	if err := service.Start(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return &settingsEnv{service: service, store: store}, nil
}

func (e *settingsEnv) bind(ctx context.Context, service *sos.Service, encoder *sosjson.Encoder) error {
	for owner, bindings := range map[string][]settings.Binding{
		"sos":     service.Bindings(),
		"encoder": encoder.Bindings(),
	} {
		reg, err := e.service.Configure(ctx, owner, bindings...)
		if err != nil {
			return err
		}
		e.registrations = append(e.registrations, reg)
	}
	return nil
}

func (e *settingsEnv) close() {
	for _, reg := range e.registrations {
		_ = reg.Close()
	}
	_ = e.store.Close()
}

func settingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show and edit the settings file",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all settings with their current values",
				Action: withSettings(listSettings),
			},
			{
				Name:      "get",
				Usage:     "Print the value of a setting",
				ArgsUsage: "KEY",
				Action:    withSettings(getSetting),
			},
			{
				Name:      "set",
				Usage:     "Change the value of a setting",
				ArgsUsage: "KEY VALUE",
				Action:    withSettings(setSetting),
			},
			{
				Name:      "delete",
				Usage:     "Reset a setting to its default",
				ArgsUsage: "KEY",
				Action:    withSettings(deleteSetting),
			},
		},
	}
}

func withSettings(fn func(*cli.Context, *settingsEnv) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		env, err := openSettings(c.Context, c.String(settingsFlag))
		if err != nil {
			return err
		}
		defer env.close()
		return fn(c, env)
	}
}

func listSettings(c *cli.Context, env *settingsEnv) error {
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTYPE\tVALUE")
	for _, v := range env.service.GetSettings() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.Key, v.Type, v.String())
	}
	return w.Flush()
}

func getSetting(c *cli.Context, env *settingsEnv) error {
	if c.NArg() != 1 {
		return fmt.Errorf("%w: usage: settings get KEY", errUsage)
	}
	v, err := env.service.GetSetting(c.Args().First())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, v.String())
	return err
}

func setSetting(c *cli.Context, env *settingsEnv) error {
	if c.NArg() != 2 {
		return fmt.Errorf("%w: usage: settings set KEY VALUE", errUsage)
	}
	key := c.Args().Get(0)
	def, ok := env.service.Definition(key)
	if !ok {
		return fmt.Errorf("%w: %s", settings.ErrUnknownSetting, key)
	}
	v, err := settings.ParseValue(def, c.Args().Get(1))
	if err != nil {
		return err
	}
	return env.service.ChangeSetting(c.Context, v)
}

func deleteSetting(c *cli.Context, env *settingsEnv) error {
	if c.NArg() != 1 {
		return fmt.Errorf("%w: usage: settings delete KEY", errUsage)
	}
	return env.service.DeleteSetting(c.Context, c.Args().First())
}
