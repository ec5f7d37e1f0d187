// main is the entry point for the weighttrend CLI.
package main

import (
	"github.com/huangsam/weighttrend/cmd"
	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Error stopping profiler", stopErr)
	}
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
