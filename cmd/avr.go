// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"sonyavr/internal"
	"sonyavr/internal/avr"
	"sonyavr/internal/cli"
	"sonyavr/internal/logger"
)

var (
	avrHost    string
	avrPort    int
	avrProfile string
	avrConfig  string
	avrDebug   bool
)

var avrCmd = &cobra.Command{
	Use:   "avr",
	Short: "Control a Sony AVR/SRS speaker",
	Long: `Control a Sony AVR/SRS speaker using the JSON control API.
Supports power, volume, mute and input operations as well as status queries.
The target device is given with --host/--port or with --device, referring to
a saved profile from the config file.`,
}

// avrRemote builds the device handle from flags or a saved profile
func avrRemote() (*avr.AvrRemote, error) {
	host := avrHost
	port := avrPort

	if avrProfile != "" {
		manager := cli.NewConfigManager(avrConfig)
		profile, err := manager.GetDevice(avrProfile)
		if err != nil {
			return nil, err
		}
		host = profile.Host
		port = profile.Port
	}

	if host == "" {
		return nil, fmt.Errorf("no device given: use --host or --device")
	}

	if avrDebug {
		logger.SetSilentMode(false)
		logger.SetLevel("debug")
	}

	options := internal.NewModeOptions(internal.WithDebug(avrDebug))
	return avr.NewAvrRemote(host, port, *options), nil
}

var avrStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show power, volume and input state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, err := avrRemote()
		if err != nil {
			return err
		}

		power, err := remote.PowerStatus()
		if err != nil {
			return err
		}
		fmt.Printf("Power:  %s\n", power)

		if power != avr.PowerStatusActive {
			return nil
		}

		info, err := remote.VolumeInfo()
		if err != nil {
			return err
		}
		fmt.Printf("Volume: %d (min %d, max %d, step %d, mute %s)\n",
			info.Volume, info.MinVolume, info.MaxVolume, info.Step, info.Mute)

		input, err := remote.CurrentInput()
		if err != nil {
			return err
		}
		fmt.Printf("Input:  %s\n", input)

		state, err := remote.State()
		if err != nil {
			return err
		}
		fmt.Printf("State:  %s\n", state)
		return nil
	},
}

var avrPowerCmd = &cobra.Command{
	Use:   "power [on|off]",
	Short: "Show or change the power status",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, err := avrRemote()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			status, err := remote.PowerStatus()
			if err != nil {
				return err
			}
			fmt.Println(status)
			return nil
		}

		switch args[0] {
		case "on":
			return remote.TurnOn()
		case "off":
			return remote.TurnOff()
		default:
			return fmt.Errorf("unknown power state: %s", args[0])
		}
	},
}

var avrVolumeCmd = &cobra.Command{
	Use:   "volume [up|down|LEVEL|FRACTION]",
	Short: "Show or change the volume",
	Long: `Show or change the volume. A bare integer sets an absolute level,
a decimal below 1.0 sets a fraction of the device maximum, and up/down move
by one device step.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, err := avrRemote()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			volume, err := remote.Volume()
			if err != nil {
				return err
			}
			fmt.Println(volume)
			return nil
		}

		switch arg := args[0]; arg {
		case "up":
			return remote.RaiseVolume(1)
		case "down":
			return remote.LowerVolume(1)
		default:
			if level, err := strconv.Atoi(arg); err == nil {
				return remote.SetVolume(level)
			}
			fraction, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("unknown volume argument: %s", arg)
			}
			return remote.SetVolumeFraction(fraction)
		}
	},
}

var avrMuteCmd = &cobra.Command{
	Use:   "mute [on|off]",
	Short: "Show or change the mute state",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, err := avrRemote()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			muted, err := remote.IsMuted()
			if err != nil {
				return err
			}
			if muted {
				fmt.Println("on")
			} else {
				fmt.Println("off")
			}
			return nil
		}

		switch args[0] {
		case "on":
			return remote.Mute()
		case "off":
			return remote.Unmute()
		default:
			return fmt.Errorf("unknown mute state: %s", args[0])
		}
	},
}

var avrInputCmd = &cobra.Command{
	Use:   "input [NAME]",
	Short: "Show available inputs or switch to one",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, err := avrRemote()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			current, err := remote.CurrentInput()
			if err != nil {
				return err
			}
			inputs, err := remote.Inputs()
			if err != nil {
				return err
			}
			for _, input := range inputs {
				marker := " "
				if input == current {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, input)
			}
			return nil
		}

		// Input titles may contain spaces
		name := strings.Join(args, " ")

		// Fetch the logger here: avrRemote has already configured the
		// log mode, and mode changes only affect loggers fetched after
		log := logger.New()
		log.Info().
			Str("host", remote.Client().Host()).
			Str("input", name).
			Msg("Switching input")

		return remote.SetInput(name)
	},
}

var avrSourcesCmd = &cobra.Command{
	Use:   "sources [SCHEME]",
	Short: "List schemes or the raw sources of one scheme",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, err := avrRemote()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			schemes, err := remote.Resolver().SchemeList()
			if err != nil {
				return err
			}
			for _, scheme := range schemes {
				fmt.Println(scheme)
			}
			return nil
		}

		sources, err := remote.Resolver().SourceList(args[0])
		if err != nil {
			return err
		}
		for _, source := range sources {
			fmt.Printf("%-30s %s\n", source.URI, source.Title)
		}
		return nil
	},
}

var avrMethodsCmd = &cobra.Command{
	Use:   "methods [endpoint.method]",
	Short: "List supported methods or describe one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, err := avrRemote()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			methods, err := remote.SupportedMethods()
			if err != nil {
				return err
			}
			for _, method := range methods {
				fmt.Println(method)
			}
			return nil
		}

		types, err := remote.MethodTypes(args[0])
		if err != nil {
			return err
		}

		pretty, err := json.MarshalIndent(types, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(pretty))
		return nil
	},
}

func init() {
	avrCmd.PersistentFlags().StringVar(&avrHost, "host", "", "device host")
	avrCmd.PersistentFlags().IntVarP(&avrPort, "port", "P", avr.DefaultPort, "device control port")
	avrCmd.PersistentFlags().StringVarP(&avrProfile, "device", "d", "", "saved device profile name")
	avrCmd.PersistentFlags().StringVar(&avrConfig, "config", cli.DefaultConfigPath, "device profile file")
	avrCmd.PersistentFlags().BoolVar(&avrDebug, "debug", false, "enable debug logging for HTTP requests")

	avrCmd.AddCommand(avrStatusCmd)
	avrCmd.AddCommand(avrPowerCmd)
	avrCmd.AddCommand(avrVolumeCmd)
	avrCmd.AddCommand(avrMuteCmd)
	avrCmd.AddCommand(avrInputCmd)
	avrCmd.AddCommand(avrSourcesCmd)
	avrCmd.AddCommand(avrMethodsCmd)
}
