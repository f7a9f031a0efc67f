package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kat-hollis/vocabgarden/pkg/store"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show quiz settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()
		s := a.settings
		fmt.Printf("audio-on:    %v\n", s.AudioOn)
		fmt.Printf("volume:      %.2f\n", s.Volume)
		fmt.Printf("autoplay:    %v\n", s.Autoplay)
		fmt.Printf("smart-grade: %v\n", s.SmartGrade)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting (audio-on, volume, autoplay, smart-grade)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		s := a.settings
		key, value := args[0], args[1]
		switch key {
		case "audio-on":
			s.AudioOn, err = strconv.ParseBool(value)
		case "autoplay":
			s.Autoplay, err = strconv.ParseBool(value)
		case "smart-grade":
			s.SmartGrade, err = strconv.ParseBool(value)
		case "volume":
			s.Volume, err = strconv.ParseFloat(value, 64)
			if err == nil && (s.Volume < 0 || s.Volume > 1) {
				err = errors.New("volume must be between 0 and 1")
			}
		default:
			return errors.Errorf("unknown setting %q", key)
		}
		if err != nil {
			return errors.Wrapf(err, "parse %s", key)
		}
		if err := store.SaveSettings(a.db, s); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", key, value)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
