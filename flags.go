package main

import "flag"

// Command-line flags selecting the model, its constants and optional viewer
// behavior.
var (
	// modelFlag picks the wave equation.
	modelFlag = flag.String("model", "classical", "wave model: classical or quantum")

	widthFlag  = flag.Int("width", defaultWidth, "grid width in cells (at least 3)")
	heightFlag = flag.Int("height", defaultHeight, "grid height in cells (at least 3)")

	// scaleFlag is the window pixels per grid cell.
	scaleFlag = flag.Int("scale", defaultScale, "window pixels per grid cell")

	// paramFlag is the damping shift (classical) or stability shift (quantum).
	paramFlag = flag.Uint("param", defaultParam, "damping shift (classical) or stability shift (quantum), 0-31")

	grayscaleFlag = flag.Bool("grayscale", false, "render the quantum magnitude only")

	stepsPerFrameFlag = flag.Int("steps-per-frame", defaultStepsPerFrame, "simulation steps per rendered frame")

	// acceleratorFlag selects the stepping backend. opencl needs a build with -tags opencl.
	acceleratorFlag = flag.String("accelerator", "cpu", "stepping backend: cpu or opencl (classical only)")

	seedFlag       = flag.String("seed", "packet", "quantum initial state: packet, delta or none")
	normTargetFlag = flag.Float64("norm-target", 0, "rescale the quantum packet to this sum of squared magnitudes (0 keeps the peak)")

	testPatternFlag = flag.Bool("test-pattern", false, "start by showing the color codec calibration image")

	// enableAudioFlag plays the center cell through the default audio device.
	enableAudioFlag = flag.Bool("enable-audio", false, "play the center cell amplitude as audio")

	// driveWAVFlag feeds a looping WAV file into the center cell as force.
	driveWAVFlag = flag.String("drive-wav", "", "WAV file looped into the center cell as external force (classical only)")

	headlessFlag   = flag.Bool("headless", false, "run without a window and exit after -frames")
	framesFlag     = flag.Int("frames", defaultHeadlessFrames, "frames to run in headless mode")
	snapshotFlag   = flag.String("snapshot", "", "write the final frame to this PNG path")
	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this path")

	// debugFlag enables the overlay and periodic log statistics.
	debugFlag = flag.Bool("debug", false, "show the status overlay and log statistics")
)
