package main

import "time"

// Viewer defaults. Grid size and model constants can be overridden by flags;
// the rest are fixed.
const (
	defaultWidth, defaultHeight = 256, 256
	defaultScale                = 3
	defaultTPS                  = 60
	defaultStepsPerFrame        = 4
	minStepsPerFrame            = 1
	maxStepsPerFrame            = 256
	defaultParam                = 6
	maxParam                    = 31
	brushRadius                 = 3
	brushForce                  = 1 << 26
	driveGain                   = 1 << 24
	audioSampleRate             = 48000
	audioBufferDuration         = 80 * time.Millisecond
	debugLogInterval            = 2 * time.Second
	defaultHeadlessFrames       = 120
)
