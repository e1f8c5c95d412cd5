package telloproto

// CommandID is the 16-bit command enumeration carried by every Packet.
type CommandID uint16

const (
	GetSSID            CommandID = 17
	SetSSID            CommandID = 18
	GetWifiPassword     CommandID = 19
	SetWifiPassword     CommandID = 20
	GetCountryCode      CommandID = 21
	SetCountryCode      CommandID = 22
	WifiState           CommandID = 26
	SetBitrate          CommandID = 32
	SetAutomaticBitrate CommandID = 33
	SetEIS              CommandID = 36
	RequestVideoSPSPPS  CommandID = 37 // sequence number always 0
	GetBitrate          CommandID = 40
	TakeAPicture        CommandID = 48
	SetCameraMode       CommandID = 49
	SetRecording        CommandID = 50
	SetCameraEV         CommandID = 52
	LightStrength       CommandID = 53
	SetPhotoQuality     CommandID = 55
	GetFirmwareVersion  CommandID = 69
	GetCurrentTime      CommandID = 70
	GetActivationData   CommandID = 71
	GetUniqueIdentifier CommandID = 72
	GetLoaderVersion    CommandID = 73
	ShutdownDrone       CommandID = 74
	GetActivationStatus CommandID = 75
	ActivateDrone       CommandID = 76
	SetCurrentFlightControls CommandID = 80 // sequence number always 0
	TakeOff             CommandID = 84
	LandDrone           CommandID = 85
	FlightData          CommandID = 86
	SetFlightHeightLimit CommandID = 88
	FlipDrone           CommandID = 92
	ThrowAndFly         CommandID = 93
	PalmLand            CommandID = 94
	DroneLogHeader        CommandID = 4176
	DroneLogData          CommandID = 4177
	DroneLogConfiguration CommandID = 4178
	SetLowBatteryWarning  CommandID = 4181
	GetFlightHeightLimit  CommandID = 4182
	GetLowBatteryWarning  CommandID = 4183
	SetAttitudeAngle      CommandID = 4184
	GetAttitudeAngle      CommandID = 4185

	ConnReq CommandID = 0xFFFE
	ConnAck CommandID = 0xFFFF
)

// Packet type tags observed on the wire.
const (
	PacketTypeShortQuery   uint8 = 0x48
	PacketTypeStreaming    uint8 = 0x60
	PacketTypeActuator     uint8 = 0x68
	PacketTypeLogResponse  uint8 = 0x50
)

// FlipDirection selects the direction argument of a FLIP_DRONE command.
type FlipDirection uint8

const (
	FlipForward FlipDirection = iota
	FlipBackward
	FlipLeft
	FlipRight
)
