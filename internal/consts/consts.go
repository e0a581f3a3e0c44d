package consts

const (
	RGAS     = 8.314  // Gas constant (J/(mol*K))
	FARADAY  = 96.485 // Faraday constant (kC/mol)
	KELVIN   = 273.15 // Kelvin temperature (K)
	BODYTEMP = 310.0  // Body temperature (K)
)
