/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/viper"

	"github.com/notargets/golsm/utils"
)

// timed runs solve under the profiling options selected on the command line
// and reports its wall time.
func timed(name string, solve func() error) (err error) {
	if dir := viper.GetString("profile"); dir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet).Stop()
	}
	start := time.Now()
	if viper.GetBool("perf") {
		var instructions uint64
		if instructions, err = countInstructions(solve); err != nil {
			return
		}
		fmt.Printf("%s: %d CPU instructions\n", name, instructions)
	} else if err = solve(); err != nil {
		return
	}
	fmt.Printf("%s: %v elapsed\n", name, time.Since(start))
	newLogger().Debug("solve finished", "name", name, utils.MemUsage())
	return
}
