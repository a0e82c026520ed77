//go:build windows

// Package webgpu provides embedded WGSL compute shaders for the ROI-Align
// operator. Using string constants instead of embed for simplicity.
package webgpu

// workgroupSize is the default number of threads per workgroup.
const workgroupSize = 256

// roiAlignForwardShader computes one pooled output element per invocation.
//
// Index decomposition, region geometry and the bilinear sampling policy
// mirror the CPU kernel exactly: out-of-bounds samples are skipped but the
// nominal grid_h * grid_w count still divides the accumulated value.
const roiAlignForwardShader = `
@group(0) @binding(0) var<storage, read> bottom_data: array<f32>;
@group(0) @binding(1) var<storage, read> bottom_rois: array<f32>;
@group(0) @binding(2) var<storage, read_write> top_data: array<f32>;

struct Params {
    size: u32,
    channels: u32,
    height: u32,
    width: u32,
    pooled_height: u32,
    pooled_width: u32,
    sampling_ratio_h: u32,
    sampling_ratio_w: u32,
    spatial_scale: f32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.size) {
        return;
    }

    let pw = i % params.pooled_width;
    let ph = (i / params.pooled_width) % params.pooled_height;
    let c = (i / (params.pooled_width * params.pooled_height)) % params.channels;
    let n = i / (params.pooled_width * params.pooled_height * params.channels);

    let roi_batch_ind = u32(bottom_rois[n * 5u]);
    let roi_start_w = bottom_rois[n * 5u + 1u] * params.spatial_scale;
    let roi_start_h = bottom_rois[n * 5u + 2u] * params.spatial_scale;
    let roi_end_w = bottom_rois[n * 5u + 3u] * params.spatial_scale;
    let roi_end_h = bottom_rois[n * 5u + 4u] * params.spatial_scale;

    // Force malformed ROIs to be 1x1
    let roi_width = max(roi_end_w - roi_start_w, 1.0);
    let roi_height = max(roi_end_h - roi_start_h, 1.0);
    let bin_size_h = roi_height / f32(params.pooled_height);
    let bin_size_w = roi_width / f32(params.pooled_width);

    var grid_h = params.sampling_ratio_h;
    if (grid_h == 0u) {
        grid_h = u32(ceil(roi_height / f32(params.pooled_height)));
    }
    var grid_w = params.sampling_ratio_w;
    if (grid_w == 0u) {
        grid_w = u32(ceil(roi_width / f32(params.pooled_width)));
    }

    let count = f32(grid_h * grid_w);
    let data_offset = (roi_batch_ind * params.channels + c) * params.height * params.width;

    var output_val = 0.0;
    for (var iy = 0u; iy < grid_h; iy = iy + 1u) {
        var y = roi_start_h + f32(ph) * bin_size_h + (f32(iy) + 0.5) * bin_size_h / f32(grid_h);
        for (var ix = 0u; ix < grid_w; ix = ix + 1u) {
            var x = roi_start_w + f32(pw) * bin_size_w + (f32(ix) + 0.5) * bin_size_w / f32(grid_w);

            if (y < -1.0 || y > f32(params.height) || x < -1.0 || x > f32(params.width)) {
                continue;
            }

            if (y <= 0.0) {
                y = 0.0;
            }
            if (x <= 0.0) {
                x = 0.0;
            }

            var y_low = u32(y);
            var x_low = u32(x);
            var y_high: u32;
            var x_high: u32;

            if (y_low >= params.height - 1u) {
                y_low = params.height - 1u;
                y_high = y_low;
                y = f32(y_low);
            } else {
                y_high = y_low + 1u;
            }
            if (x_low >= params.width - 1u) {
                x_low = params.width - 1u;
                x_high = x_low;
                x = f32(x_low);
            } else {
                x_high = x_low + 1u;
            }

            let ly = y - f32(y_low);
            let lx = x - f32(x_low);
            let hy = 1.0 - ly;
            let hx = 1.0 - lx;

            let v1 = bottom_data[data_offset + y_low * params.width + x_low];
            let v2 = bottom_data[data_offset + y_low * params.width + x_high];
            let v3 = bottom_data[data_offset + y_high * params.width + x_low];
            let v4 = bottom_data[data_offset + y_high * params.width + x_high];

            let w1 = hy * hx;
            let w2 = hy * lx;
            let w3 = ly * hx;
            let w4 = ly * lx;

            output_val = output_val + (w1 * v1 + w2 * v2 + w3 * v3 + w4 * v4);
        }
    }

    top_data[i] = output_val / count;
}
`

// roiAlignBackwardShader scatters one output element's gradient per
// invocation. WGSL has no float atomic add, so the gradient buffer is bound
// as array<atomic<u32>> and accumulation runs a compare-and-swap loop on the
// f32 bit pattern. A zero-filled buffer is valid: bitcast<f32>(0u) == 0.0.
const roiAlignBackwardShader = `
@group(0) @binding(0) var<storage, read> top_diff: array<f32>;
@group(0) @binding(1) var<storage, read> bottom_rois: array<f32>;
@group(0) @binding(2) var<storage, read_write> bottom_diff: array<atomic<u32>>;

struct Params {
    size: u32,
    channels: u32,
    height: u32,
    width: u32,
    pooled_height: u32,
    pooled_width: u32,
    sampling_ratio_h: u32,
    sampling_ratio_w: u32,
    spatial_scale: f32,
}
@group(0) @binding(3) var<uniform> params: Params;

fn atomic_add_f32(index: u32, value: f32) {
    var old = atomicLoad(&bottom_diff[index]);
    loop {
        let new_bits = bitcast<u32>(bitcast<f32>(old) + value);
        let result = atomicCompareExchangeWeak(&bottom_diff[index], old, new_bits);
        if (result.exchanged) {
            break;
        }
        old = result.old_value;
    }
}

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.size) {
        return;
    }

    let pw = i % params.pooled_width;
    let ph = (i / params.pooled_width) % params.pooled_height;
    let c = (i / (params.pooled_width * params.pooled_height)) % params.channels;
    let n = i / (params.pooled_width * params.pooled_height * params.channels);

    let roi_batch_ind = u32(bottom_rois[n * 5u]);
    let roi_start_w = bottom_rois[n * 5u + 1u] * params.spatial_scale;
    let roi_start_h = bottom_rois[n * 5u + 2u] * params.spatial_scale;
    let roi_end_w = bottom_rois[n * 5u + 3u] * params.spatial_scale;
    let roi_end_h = bottom_rois[n * 5u + 4u] * params.spatial_scale;

    // Force malformed ROIs to be 1x1
    let roi_width = max(roi_end_w - roi_start_w, 1.0);
    let roi_height = max(roi_end_h - roi_start_h, 1.0);
    let bin_size_h = roi_height / f32(params.pooled_height);
    let bin_size_w = roi_width / f32(params.pooled_width);

    var grid_h = params.sampling_ratio_h;
    if (grid_h == 0u) {
        grid_h = u32(ceil(roi_height / f32(params.pooled_height)));
    }
    var grid_w = params.sampling_ratio_w;
    if (grid_w == 0u) {
        grid_w = u32(ceil(roi_width / f32(params.pooled_width)));
    }

    let count = f32(grid_h * grid_w);
    let diff_offset = (roi_batch_ind * params.channels + c) * params.height * params.width;
    let top_diff_this_bin = top_diff[i];

    for (var iy = 0u; iy < grid_h; iy = iy + 1u) {
        var y = roi_start_h + f32(ph) * bin_size_h + (f32(iy) + 0.5) * bin_size_h / f32(grid_h);
        for (var ix = 0u; ix < grid_w; ix = ix + 1u) {
            var x = roi_start_w + f32(pw) * bin_size_w + (f32(ix) + 0.5) * bin_size_w / f32(grid_w);

            if (y < -1.0 || y > f32(params.height) || x < -1.0 || x > f32(params.width)) {
                continue;
            }

            if (y <= 0.0) {
                y = 0.0;
            }
            if (x <= 0.0) {
                x = 0.0;
            }

            var y_low = u32(y);
            var x_low = u32(x);
            var y_high: u32;
            var x_high: u32;

            if (y_low >= params.height - 1u) {
                y_low = params.height - 1u;
                y_high = y_low;
                y = f32(y_low);
            } else {
                y_high = y_low + 1u;
            }
            if (x_low >= params.width - 1u) {
                x_low = params.width - 1u;
                x_high = x_low;
                x = f32(x_low);
            } else {
                x_high = x_low + 1u;
            }

            let ly = y - f32(y_low);
            let lx = x - f32(x_low);
            let hy = 1.0 - ly;
            let hx = 1.0 - lx;

            let w1 = hy * hx;
            let w2 = hy * lx;
            let w3 = ly * hx;
            let w4 = ly * lx;

            atomic_add_f32(diff_offset + y_low * params.width + x_low, top_diff_this_bin * w1 / count);
            atomic_add_f32(diff_offset + y_low * params.width + x_high, top_diff_this_bin * w2 / count);
            atomic_add_f32(diff_offset + y_high * params.width + x_low, top_diff_this_bin * w3 / count);
            atomic_add_f32(diff_offset + y_high * params.width + x_high, top_diff_this_bin * w4 / count);
        }
    }
}
`
