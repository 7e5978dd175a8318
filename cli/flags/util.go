/*
Package flags contains helpers for CLI flag sets.
*/
package flags

import (
	"github.com/urfave/cli"
)

// MarkRequired marks flags with specified names as required.
func MarkRequired(flagSet []cli.Flag, names ...string) []cli.Flag {
	updatedflagSet := make([]cli.Flag, 0, len(flagSet))
	for _, flag := range flagSet {
		for _, n := range names {
			if n == flag.GetName() {
				switch f := (flag).(type) {
				case cli.StringFlag:
					f.Required = true
					flag = f
				case cli.IntFlag:
					f.Required = true
					flag = f
				case cli.BoolFlag:
					f.Required = true
					flag = f
				}
				break
			}
		}
		updatedflagSet = append(updatedflagSet, flag)
	}
	return updatedflagSet
}
