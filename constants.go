package main

import "time"

const (
	writeWait = 10 * time.Second

	uiTickInterval   = time.Second
	afkSweepInterval = 15 * time.Second
	afkTimeout       = 60 * time.Second

	angerStart       = 2
	angerCap         = 255
	defaultCatchRate = 45

	ballBonusChance = 0.08
	encounterChance = 18 // out of 256, rolled after every completed step

	warpCountdownMin = 1
	warpCountdownMax = 10
	baitTurnsMin     = 2
	baitTurnsMax     = 5

	actionLogCapacity = 7
)
