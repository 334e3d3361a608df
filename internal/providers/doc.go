// Package providers groups the structured content and image generation
// adapters used by the generation service. Each adapter lives in its own
// subpackage so hosts only link the SDKs they configure.
package providers
