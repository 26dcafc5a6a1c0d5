// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds all application configuration values.
type Config struct {
	// Relay server
	RelayPort           uint16
	RelayPaceMicros     int  // pause after each emitted reading
	RelayWriteTimeoutMS int  // per-record write deadline, 0 disables
	RelayEmitOnConnect  bool // push last known sample when a client connects

	// Sample source: "mock", "imu", "mqtt" or "gps"
	Source         string
	SampleInterval int // milliseconds, for polled sources

	// MQTT
	MQTTBroker   string
	MQTTClientID string
	TopicPose    string

	// IMU Hardware
	IMUSPIDevice string
	IMUCSPin     string

	// GPS
	GPSSerialPort string
	GPSBaudRate   int

	// Logging
	LogLevel string
	ErrorLog string // optional rotating file for warnings and errors

	// Diagnostic reading log: "file", "sqlite" or "none"
	ReadingsSink string
	ReadingsLog  string
	ReadingsDB   string

	// sqlite sink only: older readings are pruned, 0 keeps everything
	ReadingsRetention time.Duration

	// Web Server (status, websocket, metrics); 0 disables
	WebServerPort int

	// Display
	DisplayEnabled        bool
	DisplayI2CBus         string
	DisplayUpdateInterval int // milliseconds
}

// Package-level singleton: InitGlobal sets it once, Get reads it.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the configuration used for keys missing from the file.
func Default() *Config {
	return &Config{
		RelayPort:             5005,
		RelayPaceMicros:       1,
		RelayWriteTimeoutMS:   5000,
		Source:                "mock",
		SampleInterval:        100,
		MQTTBroker:            "tcp://localhost:1883",
		MQTTClientID:          "orientation-relay",
		TopicPose:             "inertial/pose",
		IMUSPIDevice:          "/dev/spidev6.0",
		IMUCSPin:              "18",
		GPSSerialPort:         "/dev/serial0",
		GPSBaudRate:           9600,
		LogLevel:              "info",
		ReadingsSink:          "file",
		ReadingsLog:           "./orientation_readings",
		ReadingsDB:            "./orientation_readings.db",
		ReadingsRetention:     24 * time.Hour,
		WebServerPort:         8080,
		DisplayUpdateInterval: 500,
	}
}

// Load reads the configuration file on top of Default and validates the result.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Relay server
	case "RELAY_PORT":
		port, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return fmt.Errorf("invalid RELAY_PORT %q: %w", value, err)
		}
		c.RelayPort = uint16(port)
	case "RELAY_PACE_US":
		pace, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid RELAY_PACE_US %q: %w", value, err)
		}
		c.RelayPaceMicros = pace
	case "RELAY_WRITE_TIMEOUT_MS":
		timeout, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid RELAY_WRITE_TIMEOUT_MS %q: %w", value, err)
		}
		c.RelayWriteTimeoutMS = timeout
	case "RELAY_EMIT_ON_CONNECT":
		emit, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid RELAY_EMIT_ON_CONNECT %q: %w", value, err)
		}
		c.RelayEmitOnConnect = emit

	// Source
	case "SOURCE":
		c.Source = strings.ToLower(value)
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.SampleInterval = interval

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID":
		c.MQTTClientID = value
	case "TOPIC_POSE":
		c.TopicPose = value

	// IMU Hardware
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// Logging
	case "LOG_LEVEL":
		c.LogLevel = strings.ToLower(value)
	case "ERROR_LOG":
		c.ErrorLog = value

	// Diagnostic reading log
	case "READINGS_SINK":
		c.ReadingsSink = strings.ToLower(value)
	case "READINGS_LOG":
		c.ReadingsLog = value
	case "READINGS_DB":
		c.ReadingsDB = value
	case "READINGS_RETENTION":
		retention, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid READINGS_RETENTION %q: %w", value, err)
		}
		c.ReadingsRetention = retention

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_ENABLED":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_ENABLED %q: %w", value, err)
		}
		c.DisplayEnabled = enabled
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks ranges and required fields for the selected features.
func (c *Config) validate() error {
	if c.RelayPaceMicros < 0 || c.RelayPaceMicros >= 1000 {
		return fmt.Errorf("RELAY_PACE_US must be 0-999, got %d", c.RelayPaceMicros)
	}
	if c.RelayWriteTimeoutMS < 0 {
		return fmt.Errorf("RELAY_WRITE_TIMEOUT_MS must not be negative, got %d", c.RelayWriteTimeoutMS)
	}

	switch c.Source {
	case "mock", "imu":
		if c.SampleInterval <= 0 {
			return fmt.Errorf("SAMPLE_INTERVAL must be positive, got %d", c.SampleInterval)
		}
		if c.Source == "imu" && (c.IMUSPIDevice == "" || c.IMUCSPin == "") {
			return fmt.Errorf("IMU_SPI_DEVICE and IMU_CS_PIN are required for SOURCE=imu")
		}
	case "mqtt":
		if c.MQTTBroker == "" {
			return fmt.Errorf("MQTT_BROKER is required for SOURCE=mqtt")
		}
		if c.TopicPose == "" {
			return fmt.Errorf("TOPIC_POSE is required for SOURCE=mqtt")
		}
	case "gps":
		if c.GPSSerialPort == "" {
			return fmt.Errorf("GPS_SERIAL_PORT is required for SOURCE=gps")
		}
		if c.GPSBaudRate <= 0 {
			return fmt.Errorf("GPS_BAUD_RATE must be positive, got %d", c.GPSBaudRate)
		}
	default:
		return fmt.Errorf("SOURCE must be one of mock, imu, mqtt, gps; got %q", c.Source)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}

	switch c.ReadingsSink {
	case "none":
	case "file":
		if c.ReadingsLog == "" {
			return fmt.Errorf("READINGS_LOG is required for READINGS_SINK=file")
		}
	case "sqlite":
		if c.ReadingsDB == "" {
			return fmt.Errorf("READINGS_DB is required for READINGS_SINK=sqlite")
		}
		if c.ReadingsRetention < 0 {
			return fmt.Errorf("READINGS_RETENTION must not be negative, got %v", c.ReadingsRetention)
		}
	default:
		return fmt.Errorf("READINGS_SINK must be one of file, sqlite, none; got %q", c.ReadingsSink)
	}

	if c.WebServerPort < 0 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT must be 0-65535, got %d", c.WebServerPort)
	}
	if c.DisplayEnabled && c.DisplayUpdateInterval <= 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be positive, got %d", c.DisplayUpdateInterval)
	}
	return nil
}

// RelayPace returns the pacing delay as a duration.
func (c *Config) RelayPace() time.Duration {
	return time.Duration(c.RelayPaceMicros) * time.Microsecond
}

// RelayWriteTimeout returns the per-record write deadline as a duration.
func (c *Config) RelayWriteTimeout() time.Duration {
	return time.Duration(c.RelayWriteTimeoutMS) * time.Millisecond
}

// InitGlobal initializes the global configuration from file.
// Only the first call has any effect.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance, or nil before InitGlobal.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
