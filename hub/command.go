package hub

import "time"

// Kind describes the response shape of a command.
type Kind uint8

// Response shapes.
const (
	KindStatus Kind = iota
	KindReadByte
	KindReadBytes
	KindWriteByte
	KindWriteBytes
)

// Command is an entry of the command catalog. Family and Index select the
// operation, Sub carries optional sub-index bytes written before the payload.
type Command struct {
	Name   string
	Family byte
	Index  byte
	Sub    []byte
	Kind   Kind
	// Settle overrides CommandDelay between the write and the read phase.
	Settle time.Duration
}

func (c Command) String() string {
	return c.Name
}

func (c Command) settle() time.Duration {
	if c.Settle == 0 {
		return CommandDelay
	}
	return c.Settle
}

// Request is a single bus transaction: write the command and the payload,
// then read the status byte followed by N response bytes.
type Request struct {
	Cmd     Command
	Payload []byte
	N       int
}

func (r Request) frame() []byte {
	w := make([]byte, 0, 2+len(r.Cmd.Sub)+len(r.Payload))
	w = append(w, r.Cmd.Family, r.Cmd.Index)
	w = append(w, r.Cmd.Sub...)
	w = append(w, r.Payload...)
	return w
}

// Command catalog
var (
	CmdReadHubStatus = Command{
		Name: "read hub status", Family: FamilyReadHubStatus, Index: 0x00, Kind: KindReadByte,
	}
	CmdSetDeviceMode = Command{
		Name: "set device mode", Family: FamilySetDeviceMode, Index: 0x00, Kind: KindWriteByte,
	}
	CmdReadDeviceMode = Command{
		Name: "read device mode", Family: FamilyReadDeviceMode, Index: 0x00, Kind: KindReadByte,
	}

	CmdSetOutputFormat = Command{
		Name: "set output format", Family: FamilySetOutputMode, Index: 0x00, Kind: KindWriteByte,
	}
	CmdSetFIFOThreshold = Command{
		Name: "set FIFO threshold", Family: FamilySetOutputMode, Index: 0x01, Kind: KindWriteByte,
	}
	CmdReadOutputFormat = Command{
		Name: "read output format", Family: FamilyReadOutputMode, Index: 0x00, Kind: KindReadByte,
	}
	CmdReadFIFOThreshold = Command{
		Name: "read FIFO threshold", Family: FamilyReadOutputMode, Index: 0x01, Kind: KindReadByte,
	}
	CmdReadAvailableSamples = Command{
		Name: "read available samples", Family: FamilyReadOutputFIFO, Index: 0x00, Kind: KindReadByte,
	}
	CmdReadOutputFIFO = Command{
		Name: "read output FIFO", Family: FamilyReadOutputFIFO, Index: 0x01, Kind: KindReadBytes,
	}

	CmdEnableAGC = Command{
		Name: "enable AGC", Family: FamilyEnableAlgorithm, Index: 0x00, Kind: KindWriteByte,
		Settle: 40 * time.Millisecond,
	}
	CmdEnableSensor = Command{
		Name: "enable sensor", Family: FamilyEnableSensor, Index: 0x03, Kind: KindWriteByte,
		Settle: 60 * time.Millisecond,
	}
	CmdEnableWHRM = Command{
		Name: "enable WHRM", Family: FamilyEnableAlgorithm, Index: 0x02, Kind: KindWriteByte,
		Settle: 60 * time.Millisecond,
	}
	CmdEnableBPT = Command{
		Name: "enable BPT", Family: FamilyEnableAlgorithm, Index: 0x04, Kind: KindWriteByte,
	}

	CmdWriteSystolicReference = Command{
		Name: "write systolic reference", Family: FamilySetAlgorithmConfig, Index: 0x04,
		Sub: []byte{ConfigSystolicReference}, Kind: KindWriteBytes,
	}
	CmdWriteDiastolicReference = Command{
		Name: "write diastolic reference", Family: FamilySetAlgorithmConfig, Index: 0x04,
		Sub: []byte{ConfigDiastolicReference}, Kind: KindWriteBytes,
	}
	CmdWriteBPTCalibration = Command{
		Name: "write BPT calibration", Family: FamilySetAlgorithmConfig, Index: 0x04,
		Sub: []byte{ConfigBPTCalibration}, Kind: KindWriteBytes,
	}
	CmdWriteDateTime = Command{
		Name: "write date and time", Family: FamilySetAlgorithmConfig, Index: 0x04,
		Sub: []byte{ConfigDateTime}, Kind: KindWriteBytes,
	}
	CmdWriteSpo2Coefficients = Command{
		Name: "write SpO2 coefficients", Family: FamilySetAlgorithmConfig, Index: 0x04,
		Sub: []byte{ConfigSpo2Coefficients}, Kind: KindWriteBytes,
	}
	CmdReadBPTCalibration = Command{
		Name: "read BPT calibration", Family: FamilyReadAlgorithmConfig, Index: 0x04,
		Sub: []byte{ConfigBPTCalibration}, Kind: KindReadBytes,
	}

	CmdReadMCUType = Command{
		Name: "read MCU type", Family: FamilyReadIdentity, Index: 0x00, Kind: KindReadByte,
	}
	CmdReadVersion = Command{
		Name: "read version", Family: FamilyReadIdentity, Index: 0x03, Kind: KindReadBytes,
	}
)
