// Provides platform-appropriate paths for generated recipes and images.
//
// All paths follow XDG conventions on Linux and platform-native
// conventions elsewhere, with "xccgen" as the subdirectory under each
// base path.
package paths
