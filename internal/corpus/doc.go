// Package corpus provides the frequency-weighted Georgian word dictionary
// and the label sampler used during image generation. It also contains the
// corpus builder, which scrapes the Georgian Wikipedia to produce the
// dictionary, a sqlite-backed store for built corpora, and an optional
// OpenAI-based vocabulary augmenter.
package corpus
