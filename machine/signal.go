package machine

// Signal is the actuator command sent to the device: shake the motor,
// show the speaking indicator, switch on the light.
type Signal struct {
	Shake bool
	Speak bool
	Light bool
}

var (
	// AllOff resets every actuator.
	AllOff = Signal{}
	// Speaking accompanies neutral speech.
	Speaking = Signal{Speak: true}
	// Alarm accompanies the feedback for a wrong answer.
	Alarm = Signal{Shake: true, Speak: true, Light: true}
)

func bit(on bool) byte {
	if on {
		return '1'
	}
	return '0'
}

// Encode returns the wire form, three binary digits and a newline.
func (s Signal) Encode() []byte {
	return []byte{bit(s.Shake), bit(s.Speak), bit(s.Light), '\n'}
}

func (s Signal) String() string {
	return string(s.Encode()[:3])
}
