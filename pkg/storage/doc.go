// Package storage provides output directory management for the exporter.
//
// The storage package handles:
//   - Creating the output directory and its photos/ subdirectory
//   - Saving photos with atomic write operations
//   - Skipping photos that were already downloaded
//   - Deterministic photo filenames ({observation_id}_{ordinal}.{ext})
//
// Directory creation happens at Manager construction, before any network
// activity, so an unwritable output directory fails the run immediately.
//
// Usage:
//
//	manager, err := storage.NewManager("./inat_data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	filename := storage.PhotoFileName(obs.ID, 1, "jpg")
//	if !manager.PhotoExists(filename) {
//	    err = manager.SavePhoto(bytes.NewReader(data), filename)
//	}
package storage
