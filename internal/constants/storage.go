package constants

const (
	DefaultImageBucket = "property-images"
	MediaPathPrefix    = "/media/"
)
