// Package config holds the room client's settings.
//
// Settings are resolved in layers, later layers winning:
//   - Default(): built-in values matching the reference room server
//   - Load(path): an optional JSON settings file
//   - environment variables and command line flags, applied by main
//
// Settings File Format:
//
//	{
//	  "host": "0.0.0.0",
//	  "port": 6040,
//	  "namespace": "dssn",
//	  "participant": "abdan",
//	  "aya": 1,
//	  "sura": 1,
//	  "answer_result": true,
//	  "handshake_timeout": "45s",
//	  "history": 50
//	}
//
// Keys left out of the file keep their default value. Durations use Go
// duration syntax.
//
// Validation:
//
// Validate rejects an empty host, ports outside 1-65535, namespaces that are
// empty or contain a slash, schemes other than ws and wss, verse or chapter
// indices below one, and negative timeouts or history sizes.
package config
