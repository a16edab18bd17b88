package hub

import "time"

// Command family bytes
const (
	FamilyReadHubStatus       = 0x00
	FamilySetDeviceMode       = 0x01
	FamilyReadDeviceMode      = 0x02
	FamilySetOutputMode       = 0x10
	FamilyReadOutputMode      = 0x11
	FamilyReadOutputFIFO      = 0x12
	FamilyReadInputFIFO       = 0x13
	FamilyWriteInputFIFO      = 0x14
	FamilyWriteRegister       = 0x40
	FamilyReadRegister        = 0x41
	FamilyAFEAttributes       = 0x42
	FamilyDumpRegisters       = 0x43
	FamilyEnableSensor        = 0x44
	FamilyReadSensorMode      = 0x45
	FamilySetAlgorithmConfig  = 0x50
	FamilyReadAlgorithmConfig = 0x51
	FamilyEnableAlgorithm     = 0x52
	FamilyBootloaderFlash     = 0x80
	FamilyBootloaderInfo      = 0x81
	FamilyReadIdentity        = 0xFF
)

// Output formats
const (
	OutputPause                  byte = 0x00
	OutputSensor                 byte = 0x01
	OutputAlgorithm              byte = 0x02
	OutputSensorAndAlgorithm     byte = 0x03
	OutputCounterPause           byte = 0x04
	OutputCounterSensor          byte = 0x05
	OutputCounterAlgorithm       byte = 0x06
	OutputCounterSensorAlgorithm byte = 0x07
)

// Algorithm configuration indexes (family 0x50/0x51, index 0x04)
const (
	ConfigSystolicReference  byte = 0x01
	ConfigDiastolicReference byte = 0x02
	ConfigBPTCalibration     byte = 0x03
	ConfigDateTime           byte = 0x04
	ConfigSpo2Coefficients   byte = 0x06
)

// Algorithm modes
const (
	WHRMDisable  byte = 0x00
	WHRMMode1    byte = 0x01
	WHRMExtended byte = 0x02

	BPTDisable     byte = 0x00
	BPTCalibration byte = 0x01
	BPTEstimation  byte = 0x02
)

// Hub status bits
const (
	HubSensorCommErr  byte = (1 << 0)
	HubDataReady      byte = (1 << 3)
	HubOutputOverflow byte = (1 << 4)
	HubInputOverflow  byte = (1 << 5)
	HubAccelUnderflow byte = (1 << 6)
)

// Device constants
const (
	Addr = 0x55

	CalibrationSize = 512

	SensorAlgorithmRecordSize = 21
	BPTRecordSize             = 23
	BPTRawRecordSize          = 12

	DefaultFIFOThreshold  = 0x0F
	DefaultMaxBusyRetries = 100
)

// Timing
const (
	CommandDelay = 5 * time.Millisecond

	resetHold = 10 * time.Millisecond
	bootWait  = 1000 * time.Millisecond
	busyDelay = 10 * time.Millisecond
)
