// Package model defines the records produced by a missionscan run.
//
// This package contains the following main types:
//   - Document: The top-level JSON document written at the end of a run
//   - MissionSession: A session listing page and the missions it links to
//   - Mission: One mission with its card snapshot, goals and images
//   - ImageRef: A remote image URL paired with its intended local file
//
// The models live in their own package because the crawler, pipeline and
// report packages all need them.
//
// JSON field names follow the document consumed by the front end, including
// the misspelled "completedRequeriments" card key.
package model
