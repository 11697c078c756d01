package avr

// DefaultPort is the control port used by Sony SRS devices
const DefaultPort = 54480

// RequestIDBound caps randomly generated request ids. Collisions only
// matter within a single exchange, so the range just has to make them
// practically negligible.
const RequestIDBound = 50000

// API Endpoints for Sony AVR/SRS Control
const (
	SystemEndpoint    AvrEndpoint = "system"
	AudioEndpoint     AvrEndpoint = "audio"
	AVContentEndpoint AvrEndpoint = "avContent"
	GuideEndpoint     AvrEndpoint = "guide"
)

// API Methods for Sony AVR/SRS Control
const (
	// System Methods
	GetPowerStatus AvrMethod = "getPowerStatus"
	SetPowerStatus AvrMethod = "setPowerStatus"

	// Audio Methods
	GetVolumeInformation AvrMethod = "getVolumeInformation"
	SetAudioVolume       AvrMethod = "setAudioVolume"
	SetAudioMute         AvrMethod = "setAudioMute"

	// AV Content Methods
	GetPlayingContentInfo AvrMethod = "getPlayingContentInfo"
	GetSchemeList         AvrMethod = "getSchemeList"
	GetSourceList         AvrMethod = "getSourceList"
	SetPlayContent        AvrMethod = "setPlayContent"

	// Introspection Methods
	GetSupportedApiInfo AvrMethod = "getSupportedApiInfo"
	GetMethodTypes      AvrMethod = "getMethodTypes"
)

// API versions. Methods may exist in several revisions with different
// parameter and result shapes; these are the revisions the SRS line answers.
const (
	V10 AvrVersion = "1.0"
	V11 AvrVersion = "1.1"
	V12 AvrVersion = "1.2"
)

// Power status values reported and accepted by setPowerStatus/getPowerStatus
const (
	PowerStatusActive = "active"
	PowerStatusOff    = "off"
)

// Mute states accepted by setAudioMute and reported by getVolumeInformation
const (
	MuteOn  = "on"
	MuteOff = "off"
)
