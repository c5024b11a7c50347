/*
Package docstore contains a block-compressed, append-only document
store. Documents are identified by dense numeric IDs assigned in
append order and are retrieved through a skip index which maps IDs to
compressed block ranges.

Data Structure Documentation

Store

A store contains a series of compressed document blocks followed by a
skip index and a store footer.

    Store layout:
    +---------+---------+---------+------------+--------------+
    | block 1 |   ...   | block n | skip index | store footer |
    +---------+---------+---------+------------+--------------+

    Skip index:
    +--------------------+---------------------+--------------------+---------------------+--------+
    | doc count (varint) | block len (varint)  | doc count (varint) | block len (varint)  |   ...  |
    +--------------------+---------------------+--------------------+---------------------+--------+

    Store footer:
    +-------------------------------+
    | skip index offset (8 bytes)   |
    +-------------------------------+

Blocks are stored back-to-back, so the skip index only records per-block
doc counts and byte lengths; checkpoint offsets and starting doc IDs
are reconstructed cumulatively when the index is decoded.

Block

A block comprises of a series of length-prefixed document records,
followed by a single-byte compression type indicator once compressed.

    Decompressed block layout:
    +-------------------+----------------+-------------------+----------------+-------+
    | doc len (varint)  | doc 1 (varlen) | doc len (varint)  | doc 2 (varlen) |  ...  |
    +-------------------+----------------+-------------------+----------------+-------+

Document

A document is an ordered list of named fields.

    +---------------------+--------------------+------+---------------------+-------+-------+
    | field count (varint)| name len (varint)  | name | value len (varint)  | value |  ...  |
    +---------------------+--------------------+------+---------------------+-------+-------+
*/
package docstore
