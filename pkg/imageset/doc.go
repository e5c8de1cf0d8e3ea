// Package imageset discovers and loads the images that make up a sheet.
//
// Loading happens in two explicit phases. The first phase decodes every
// candidate file and downscales it to the target width, producing one
// [Result] per file. The first successful result becomes the [Reference]: its
// working size is the canonical cell size and, together with the configured
// background, it fixes the canvas [Mode]. The second phase converts every
// successful image to that mode. Files that fail any step are reported as
// [Skip] values rather than errors, so one bad file never aborts a run.
package imageset
