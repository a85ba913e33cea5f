// Package source provides catalog sources for the rules engine.
//
// A catalog source loads a rule catalog and watches it for changes. The
// file source reads YAML catalogs from a file or directory and supports
// hot reload via fsnotify with debouncing; the memory source holds a fixed
// catalog and is used by tests and for the embedded default catalog.
//
//	src := source.NewFileSource("catalog.yaml", logger)
//	catalog, err := src.Load(ctx)
//
// # Catalog File Format
//
//	name: home
//	rules:
//	  - name: Windows open → turn off AC
//	    priority: 100
//	    conditions:
//	      - field: windows_open
//	        operator: "=="
//	        value: true
//	    action:
//	      mode: OFF
//	      fan_speed: LOW
//	      setpoint: null
//	      reason: Windows are open
package source
