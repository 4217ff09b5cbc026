package pulse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/sinkswitch/internal/model"
)

// Trimmed `pacmd list-sinks` output with two sinks.
const pacmdListSinks = `2 sink(s) available.
  * index: 0
	name: <alsa_output.pci-0000_00_1f.3.analog-stereo>
	driver: <module-alsa-card.c>
	state: RUNNING
	properties:
		alsa.resolution_bits = "16"
		device.api = "alsa"
		alsa.card = "0"
		alsa.card_name = "HDA Intel PCH"
		alsa.long_card_name = "HDA Intel PCH at 0xf7f10000 irq 130"
	ports:
		analog-output-speaker: Speakers (priority 10000, latency offset 0 usec, available: unknown)
		analog-output-headphones: Headphones (priority 9900, latency offset 0 usec, available: no)
    index: 3
	name: <alsa_output.usb-Generic_USB_Audio_DAC-00.analog-stereo>
	driver: <module-alsa-card.c>
	state: SUSPENDED
	properties:
		alsa.card = "1"
		alsa.card_name = "USB Audio DAC"
		alsa.long_card_name = "Generic USB Audio DAC at usb-0000:00:14.0-2, full speed"
`

// Trimmed `pactl list sinks` output.
const pactlListSinksHeadphones = `Sink #0
	State: RUNNING
	Name: alsa_output.pci-0000_00_1f.3.analog-stereo
	Ports:
		[Out] Speaker: Speaker (type: Speaker, priority: 10000, availability unknown)
		[Out] Headphones: Headphones (type: Headphones, priority: 9900, availability group: Legacy 2, available)
	Active Port: [Out] Headphones
Sink #3
	State: SUSPENDED
	Name: alsa_output.usb-Generic_USB_Audio_DAC-00.analog-stereo
	Ports:
		analog-output: Analog Output (type: Analog, priority: 9900, availability unknown)
`

const pactlListSinksNoHeadphones = `Sink #0
	State: RUNNING
	Ports:
		[Out] Speaker: Speaker (type: Speaker, priority: 10000, availability unknown)
		[Out] Headphones: Headphones (type: Headphones, priority: 9900, availability group: Legacy 2, not available)
	Active Port: [Out] Speaker
`

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  model.Event
		found bool
	}{
		{"change", "Event 'change' on sink #0", model.Event{Type: model.EventChanged, Sink: 0}, true},
		{"new", "Event 'new' on sink #12", model.Event{Type: model.EventNew, Sink: 12}, true},
		{"remove", "Event 'remove' on sink #3", model.Event{Type: model.EventRemoved, Sink: 3}, true},
		{"sink input", "Event 'new' on sink-input #42", model.Event{}, false},
		{"server", "Event 'change' on server #-1", model.Event{}, false},
		{"source", "Event 'change' on source #1", model.Event{}, false},
		{"not anchored", "  Event 'change' on sink #0", model.Event{}, false},
		{"case sensitive", "event 'change' on sink #0", model.Event{}, false},
		{"empty", "", model.Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseEvent(tt.line)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSinks(t *testing.T) {
	sinks, err := ParseSinks([]byte(pacmdListSinks))
	require.NoError(t, err)
	assert.Equal(t, []model.Sink{
		{StableName: "HDA Intel PCH", Handle: 0},
		{StableName: "USB Audio DAC", Handle: 3},
	}, sinks)
}

func TestParseSinks_MinimalScenario(t *testing.T) {
	input := "index: 0\n\talsa.card_name = \"HDA Intel PCH\"\nindex: 1\n\talsa.card_name = \"USB Audio DAC\""

	sinks, err := ParseSinks([]byte(input))
	require.NoError(t, err)

	table := model.NewSinkTable()
	table.Replace(sinks)
	assert.Equal(t, map[string]int{"HDA Intel PCH": 0, "USB Audio DAC": 1}, table.Snapshot())
}

func TestParseSinks_Empty(t *testing.T) {
	sinks, err := ParseSinks([]byte("0 sink(s) available.\n"))
	require.NoError(t, err)
	assert.Empty(t, sinks)
}

func TestParseSinks_MissingCardName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		handle string
	}{
		{
			name:   "middle block",
			input:  "index: 0\n\talsa.card_name = \"HDA Intel PCH\"\nindex: 5\n\tname: <null>\nindex: 6\n\talsa.card_name = \"USB Audio DAC\"\n",
			handle: "sink 5",
		},
		{
			name:   "last block",
			input:  "index: 0\n\talsa.card_name = \"HDA Intel PCH\"\nindex: 9\n\tname: <bluez>\n",
			handle: "sink 9",
		},
		{
			name:   "only block",
			input:  "index: 2\n",
			handle: "sink 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sinks, err := ParseSinks([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, sinks)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Contains(t, parseErr.Error(), tt.handle)
		})
	}
}

func TestParseSinks_CardNameBeforeFirstBlockIgnored(t *testing.T) {
	input := "\talsa.card_name = \"Stray\"\nindex: 0\n\talsa.card_name = \"HDA Intel PCH\"\n"

	sinks, err := ParseSinks([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, []model.Sink{{StableName: "HDA Intel PCH", Handle: 0}}, sinks)
}

func TestParseSinks_StrayCardNameDoesNotNameNextBlock(t *testing.T) {
	input := "\talsa.card_name = \"Stray\"\nindex: 0\n"

	_, err := ParseSinks([]byte(input))
	require.Error(t, err)
}

func TestParseSinks_LastCardNameInBlockWins(t *testing.T) {
	input := "index: 0\n\talsa.card_name = \"First\"\n\talsa.card_name = \"Second\"\n"

	sinks, err := ParseSinks([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, []model.Sink{{StableName: "Second", Handle: 0}}, sinks)
}

func TestParseHeadphoneSinks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{"available", pactlListSinksHeadphones, []int{0}},
		{"not available", pactlListSinksNoHeadphones, nil},
		{"empty", "", nil},
		{
			name:  "before any sink header",
			input: "[Out] Headphones: Headphones (available)\n",
			want:  nil,
		},
		{
			name:  "case insensitive",
			input: "Sink #2\n\tHEADPHONES jack AVAILABLE\n",
			want:  []int{2},
		},
		{
			name:  "negation case insensitive",
			input: "Sink #2\n\tHeadphones: Headphones (Not Available)\n",
			want:  nil,
		},
		{
			name:  "multiple sinks",
			input: "Sink #1\n\theadphones: available\nSink #4\n\theadphones x available\n\theadphones y available\n",
			want:  []int{1, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHeadphoneSinks([]byte(tt.input)))
		})
	}
}

func TestParseStreams(t *testing.T) {
	input := `2 sink input(s) available.
    index: 7
	driver: <protocol-native.c>
	sink: 0 <alsa_output.pci-0000_00_1f.3.analog-stereo>
    index:11
	sink: 0 <alsa_output.pci-0000_00_1f.3.analog-stereo>
`
	assert.Equal(t, []int{7, 11}, ParseStreams([]byte(input)))
	assert.Empty(t, ParseStreams([]byte("0 sink input(s) available.\n")))
}
