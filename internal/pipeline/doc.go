// Package pipeline runs a catalog build end to end: load the workbook,
// validate and assemble the catalog, publish the artifacts and record the
// outcome in the build history.
//
// Each step runs through stage.Run so log lines carry the build id and stage
// name. Validate stops after assembly; Build continues through publish and
// record. History failures are logged and never fail a build.
package pipeline
