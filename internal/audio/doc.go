// Package audio plays the confirmation chime after an output switch.
// It uses the beep library to decode WAV, OGG and MP3 files.
package audio
