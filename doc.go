// Package eebridge bridges a host computer and a 24AA512-class serial EEPROM.
//
// The host drives a chunked transfer protocol over a serial link; the bridge
// turns each chunk into I2C transactions against the EEPROM at address 0x50
// and keeps the running address offset for the session.
//
// # References:
//
// Microchip
//   - [24AA512]: 24AA512/24LC512/24FC512 512K I2C Serial EEPROM (https://ww1.microchip.com/downloads/en/DeviceDoc/21754M.pdf)
//
// FTDI (https://ftdichip.com/document/application-notes/)
//   - [FTDI-AN_255]: USB to I2C Example using the FT232H and FT201X devices (https://ftdichip.com/wp-content/uploads/2020/08/AN_255_USB-to-I2C-Example-using-the-FT232H-and-FT201X-devices.pdf)
//   - [FTDI-DS_FT232H]: FT232H Single Channel Hi-Speed USB to Multipurpose UART/FIFO IC (https://ftdichip.com/wp-content/uploads/2020/07/DS_FT232H.pdf)
package eebridge
