// Command slated reviews and corrects production metadata in WAV batches:
// scan a day's recordings into a workspace, fix fields, save them back into
// the files, and mirror the batch into a metadata-organized delivery tree.
package main
